package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nzdialect/core"
)

func TestFromCatalog(t *testing.T) {
	tests := []struct {
		name       string
		typeID     int
		length     int
		formatType string
		want       core.Type
	}{
		{name: "boolean", typeID: 16, formatType: "BOOLEAN", want: core.Type{Kind: core.KindBoolean}},
		{name: "single char", typeID: 18, formatType: "CHAR", want: core.Type{Kind: core.KindChar, Length: 1}},
		{name: "byteint", typeID: 2500, formatType: "BYTEINT", want: core.Type{Kind: core.KindByteInt}},
		{name: "bigint", typeID: 20, formatType: "BIGINT", want: core.Type{Kind: core.KindBigInt}},
		{
			name: "numeric with precision", typeID: 1700, formatType: "NUMERIC(18,4)",
			want: core.Type{Kind: core.KindNumeric, Precision: 18, Scale: 4},
		},
		{
			name: "lower case numeric", typeID: 1700, formatType: "numeric(38,0)",
			want: core.Type{Kind: core.KindNumeric, Precision: 38, Scale: 0},
		},
		{
			name: "varchar length from catalog", typeID: 1043, length: 20, formatType: "",
			want: core.Type{Kind: core.KindVarchar, Length: 20},
		},
		{
			name: "varchar length from format type", typeID: 1043, length: 80, formatType: "CHARACTER VARYING(20)",
			want: core.Type{Kind: core.KindVarchar, Length: 20},
		},
		{
			name: "nvarchar", typeID: 2530, length: 40, formatType: "NATIONAL CHARACTER VARYING(10)",
			want: core.Type{Kind: core.KindNVarchar, Length: 10},
		},
		{
			name: "geometry precision", typeID: 2552, length: 200, formatType: "ST_GEOMETRY(200)",
			want: core.Type{Kind: core.KindGeometry, Length: 200},
		},
		{
			name: "varbinary", typeID: 2568, length: 16, formatType: "BINARY VARYING(16)",
			want: core.Type{Kind: core.KindVarBinary, Length: 16},
		},
		{name: "timestamp", typeID: 1184, formatType: "TIMESTAMP", want: core.Type{Kind: core.KindTimestamp}},
		{name: "time with zone", typeID: 1266, formatType: "TIME WITH TIME ZONE", want: core.Type{Kind: core.KindTimeTZ}},
		{name: "system oid", typeID: 26, formatType: "OID", want: core.Type{Kind: core.KindOID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromCatalog(tt.typeID, tt.length, tt.formatType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromCatalogUnsupported(t *testing.T) {
	_, err := FromCatalog(9999, 0, "XMLTYPE")
	var ute *core.UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "XMLTYPE", ute.Type)
	assert.Contains(t, ute.Reason, "9999")

	_, err = FromCatalog(1700, 0, "garbage")
	require.ErrorAs(t, err, &ute)
	assert.Contains(t, ute.Reason, "numeric precision")
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want core.Type
	}{
		{"byteint", core.Type{Kind: core.KindByteInt}},
		{"INT1", core.Type{Kind: core.KindByteInt}},
		{"ST_GEOMETRY(200)", core.Type{Kind: core.KindGeometry, Length: 200}},
		{"st_geometry ( 64000 )", core.Type{Kind: core.KindGeometry, Length: 64000}},
		{"NUMERIC", core.Type{Kind: core.KindNumeric, Precision: 18, Scale: 0}},
		{"decimal(10)", core.Type{Kind: core.KindNumeric, Precision: 10, Scale: 0}},
		{"NUMERIC(12, 2)", core.Type{Kind: core.KindNumeric, Precision: 12, Scale: 2}},
		{"character  varying(20)", core.Type{Kind: core.KindVarchar, Length: 20}},
		{"char", core.Type{Kind: core.KindChar, Length: 1}},
		{"NCHAR(5)", core.Type{Kind: core.KindNChar, Length: 5}},
		{"double precision", core.Type{Kind: core.KindDouble}},
		{"float(4)", core.Type{Kind: core.KindReal}},
		{"float(15)", core.Type{Kind: core.KindDouble}},
		{"time with time zone", core.Type{Kind: core.KindTimeTZ}},
		{"timestamp", core.Type{Kind: core.KindTimestamp}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		raw    string
		reason string
	}{
		{"xml", "unknown Netezza type"},
		{"varchar(", "malformed type"},
		{"varchar", "requires a length"},
		{"st_geometry", "requires a length"},
		{"varchar(64001)", "exceeds maximum"},
		{"nvarchar(16001)", "exceeds maximum"},
		{"numeric(39,2)", "out of range"},
		{"numeric(5,6)", "out of range"},
		{"numeric(0)", "precision 0 out of range"},
		{"numeric(0,0)", "precision 0 out of range"},
		{"integer(4)", "does not take parameters"},
		{"char(1,2)", "single length"},
		{"timestamp with time zone", "unknown Netezza type"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := Parse(tt.raw)
			var ute *core.UnsupportedTypeError
			require.ErrorAs(t, err, &ute)
			assert.Equal(t, tt.raw, ute.Type)
			assert.Contains(t, ute.Reason, tt.reason)
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		typ  core.Type
		want string
	}{
		{core.Type{Kind: core.KindByteInt}, "BYTEINT"},
		{core.Type{Kind: core.KindGeometry, Length: 200}, "ST_GEOMETRY(200)"},
		{core.Type{Kind: core.KindNumeric}, "NUMERIC(18,0)"},
		{core.Type{Kind: core.KindNumeric, Precision: 12, Scale: 3}, "NUMERIC(12,3)"},
		{core.Type{Kind: core.KindDouble}, "DOUBLE PRECISION"},
		{core.Type{Kind: core.KindText}, "VARCHAR(64000)"},
		{core.Type{Kind: core.KindNVarchar, Length: 30}, "NVARCHAR(30)"},
		{core.Type{Kind: core.KindTimeTZ}, "TIME WITH TIME ZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := Render(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderRejects(t *testing.T) {
	for _, typ := range []core.Type{
		{Kind: "xml"},
		{Kind: core.KindGeometry},
		{Kind: core.KindVarchar, Length: 70000},
		{Kind: core.KindNumeric, Precision: 40},
	} {
		_, err := Render(typ)
		var ute *core.UnsupportedTypeError
		assert.ErrorAs(t, err, &ute, "type %v", typ)
	}
}

// Every supported catalog type must render to DDL that parses back to a type
// rendering the same DDL.
func TestCatalogRoundTrip(t *testing.T) {
	for _, e := range Supported() {
		t.Run(e.Name, func(t *testing.T) {
			formatType := e.Name
			length := 0
			switch {
			case e.Kind == core.KindNumeric:
				formatType = "NUMERIC(20,5)"
			case e.HasLength:
				length = 42
			}

			typ, err := FromCatalog(e.OID, length, formatType)
			require.NoError(t, err)

			ddl, err := Render(typ)
			require.NoError(t, err)

			reparsed, err := Parse(ddl)
			require.NoError(t, err)

			again, err := Render(reparsed)
			require.NoError(t, err)
			assert.Equal(t, ddl, again)
			if e.Kind != core.KindText {
				assert.Equal(t, typ, reparsed)
			}
		})
	}
}

func TestSupportedOrdered(t *testing.T) {
	entries := Supported()
	require.Len(t, entries, len(catalogTypes))
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].OID, entries[i].OID)
	}
	e, ok := LookupOID(2552)
	require.True(t, ok)
	assert.Equal(t, core.KindGeometry, e.Kind)
}
