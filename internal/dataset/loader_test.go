package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/carcare/carcarebot/internal/errors"
	"github.com/carcare/carcarebot/internal/logger"
	"github.com/carcare/carcarebot/internal/logger/loggertest"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repairs.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_MissingFileUsesFallback(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "absent.csv"), loggertest.New(t))

	table, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, RequiredColumns, table.Columns)
	require.Equal(t, 6, table.Len())
	assert.Equal(t, "engine making noise", table.Value(0, ColServiceDescription))
	assert.Equal(t, "towing", table.Value(5, ColServiceType))

	var types []string
	for _, r := range table.Records() {
		types = append(types, r.ServiceType)
		assert.Equal(t, "car", r.VehicleType)
		assert.Equal(t, "generic", r.MakeAndModel)
	}
	assert.Equal(t, []string{
		"engine repair", "battery replacement", "tire service", "oil change", "brake service", "towing",
	}, types)
}

func TestLoader_NormalizesColumnsAndFillsMissing(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"Service Description, Service Type ,Make And Model,Odometer",
		"alternator whine,electrical,Ford Focus,120000",
		"tow to shop,towing",
		"",
	}, "\n"))

	table, err := NewLoader(path, logger.NewNoOpLogger()).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"service_description", "service_type", "make_and_model", "odometer", "vehicle_type",
	}, table.Columns)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, "alternator whine", table.Value(0, ColServiceDescription))
	assert.Equal(t, "Ford Focus", table.Value(0, ColMakeAndModel))
	assert.Equal(t, "", table.Value(0, ColVehicleType))
	// short row is padded
	assert.Equal(t, "towing", table.Value(1, ColServiceType))
	assert.Equal(t, "", table.Value(1, ColMakeAndModel))
	assert.Equal(t, "", table.Value(1, "odometer"))
}

func TestLoader_Idempotent(t *testing.T) {
	path := writeCSV(t, "Service Description,Vehicle Type\nflat tire,truck\n,\n")
	l := NewLoader(path, logger.NewNoOpLogger())

	first, err := l.Load()
	require.NoError(t, err)
	second, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, first.Columns, second.Columns)
	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Columns, Normalize(first).Columns)
}

func TestLoader_ReloadsFromDisk(t *testing.T) {
	path := writeCSV(t, "service_description,service_type\nbattery dead,battery replacement\n")
	l := NewLoader(path, logger.NewNoOpLogger())

	before, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, 1, before.Len())

	require.NoError(t, os.WriteFile(path, []byte("service_description,service_type\na,b\nc,d\n"), 0o644))
	after, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, after.Len())
}

func TestLoader_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "unterminated quote in header", content: "\"service_description\nx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(writeCSV(t, tt.content), logger.NewNoOpLogger()).Load()
			require.Error(t, err)
			assert.Equal(t, apperrors.KindDataset, apperrors.KindOf(err))
		})
	}
}

func TestNormalizeColumn(t *testing.T) {
	assert.Equal(t, "make_and_model", NormalizeColumn(" Make and Model "))
	assert.Equal(t, "service_type", NormalizeColumn("\ufeffService Type"))
	assert.Equal(t, "service_type", NormalizeColumn(NormalizeColumn("Service Type")))
}

func TestLoader_BlanksMissingValueMarkers(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"service_description,service_type,vehicle_type,make_and_model",
		"battery dead,NA,N/A,null",
		"nan,towing,None,#N/A",
		"Not Available,NAN,na ,Honda NA",
	}, "\n"))

	table, err := NewLoader(path, logger.NewNoOpLogger()).Load()
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	recs := table.Records()
	assert.Equal(t, "battery dead", recs[0].ServiceDescription)
	assert.Empty(t, recs[0].ServiceType)
	assert.Empty(t, recs[0].VehicleType)
	assert.Empty(t, recs[0].MakeAndModel)

	assert.Empty(t, recs[1].ServiceDescription)
	assert.Equal(t, "towing", recs[1].ServiceType)
	assert.Empty(t, recs[1].VehicleType)
	assert.Empty(t, recs[1].MakeAndModel)

	// only exact markers are blanked
	assert.Equal(t, "Not Available", recs[2].ServiceDescription)
	assert.Equal(t, "NAN", recs[2].ServiceType)
	assert.Equal(t, "na ", recs[2].VehicleType)
	assert.Equal(t, "Honda NA", recs[2].MakeAndModel)

	assert.Equal(t, NoRecordsMessage("null"), Search(table, "null", 3))
}
