package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMySQLType(t *testing.T) {
	tests := []struct {
		dataType   string
		columnType string
		want       string
	}{
		{"int", "int(11)", TypeNumber},
		{"bigint", "bigint(20) unsigned", TypeNumber},
		{"decimal", "decimal(10,2)", TypeNumber},
		{"tinyint", "tinyint(1)", TypeBoolean},
		{"tinyint", "tinyint(4)", TypeNumber},
		{"bit", "bit(1)", TypeBoolean},
		{"bit", "bit(8)", TypeNumber},
		{"varchar", "varchar(64)", TypeString},
		{"enum", "enum('a','b')", TypeString},
		{"datetime", "datetime", TypeDate},
		{"timestamp", "timestamp", TypeDate},
		{"blob", "blob", TypeBuffer},
		{"json", "json", TypeAny},
		{"geometry", "geometry", TypeAny},
	}

	for _, tt := range tests {
		t.Run(tt.columnType, func(t *testing.T) {
			assert.Equal(t, tt.want, mysqlType(tt.dataType, tt.columnType))
		})
	}
}

func TestPostgresType(t *testing.T) {
	assert.Equal(t, TypeNumber, postgresType("int8", "bigint"))
	assert.Equal(t, TypeBoolean, postgresType("bool", "boolean"))
	assert.Equal(t, TypeString, postgresType("varchar", "character varying(20)"))
	assert.Equal(t, TypeDate, postgresType("timestamp", "timestamp without time zone"))
	assert.Equal(t, TypeAny, postgresType("_int4", "integer[]"))
	assert.Equal(t, TypeAny, postgresType("tsvector", "tsvector"))
}

func TestSQLServerType(t *testing.T) {
	assert.Equal(t, TypeBoolean, sqlserverType("bit", "bit"))
	assert.Equal(t, TypeString, sqlserverType("nvarchar", "nvarchar"))
	assert.Equal(t, TypeString, sqlserverType("uniqueidentifier", "uniqueidentifier"))
	assert.Equal(t, TypeDate, sqlserverType("datetimeoffset", "datetimeoffset"))
	assert.Equal(t, TypeBuffer, sqlserverType("varbinary", "varbinary"))
}

func TestSQLiteType(t *testing.T) {
	tests := map[string]string{
		"INTEGER":          TypeNumber,
		"UNSIGNED BIG INT": TypeNumber,
		"VARCHAR(255)":     TypeString,
		"NATIVE CHARACTER": TypeString,
		"CLOB":             TypeString,
		"BLOB":             TypeBuffer,
		"REAL":             TypeNumber,
		"FLOATING POINT":   TypeNumber,
		"BOOLEAN":          TypeBoolean,
		"DATETIME":         TypeDate,
		"DECIMAL(10,5)":    TypeNumber,
		"":                 TypeAny,
	}

	for declared, want := range tests {
		assert.Equal(t, want, sqliteType(declared, declared), declared)
	}
}

func TestCommentLines(t *testing.T) {
	assert.Nil(t, commentLines(""))
	assert.Nil(t, commentLines("  \n "))
	assert.Equal(t, []string{"one"}, commentLines("one"))
	assert.Equal(t, []string{"one", "", "two"}, commentLines("one  \r\n\r\ntwo\n"))
}
