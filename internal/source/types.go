package source

import (
	"strings"
)

// Semantic column types understood by the emitter
const (
	TypeNumber  = "number"
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeDate    = "Date"
	TypeBuffer  = "Buffer"
	TypeAny     = "any"
)

var semanticTypes = map[string]string{
	// numeric
	"tinyint": TypeNumber, "smallint": TypeNumber, "mediumint": TypeNumber,
	"int": TypeNumber, "integer": TypeNumber, "bigint": TypeNumber,
	"int2": TypeNumber, "int4": TypeNumber, "int8": TypeNumber,
	"serial": TypeNumber, "bigserial": TypeNumber, "smallserial": TypeNumber,
	"decimal": TypeNumber, "numeric": TypeNumber, "float": TypeNumber,
	"double": TypeNumber, "real": TypeNumber, "float4": TypeNumber, "float8": TypeNumber,
	"money": TypeNumber, "smallmoney": TypeNumber, "year": TypeNumber, "bit": TypeNumber,
	"oid": TypeNumber,

	// boolean
	"bool": TypeBoolean, "boolean": TypeBoolean,

	// text
	"char": TypeString, "varchar": TypeString, "nchar": TypeString, "nvarchar": TypeString,
	"bpchar": TypeString, "text": TypeString, "tinytext": TypeString,
	"mediumtext": TypeString, "longtext": TypeString, "ntext": TypeString,
	"clob": TypeString, "enum": TypeString, "set": TypeString, "uuid": TypeString,
	"uniqueidentifier": TypeString, "citext": TypeString, "name": TypeString,
	"xml": TypeString, "inet": TypeString, "cidr": TypeString, "macaddr": TypeString,
	"time": TypeString, "timetz": TypeString, "interval": TypeString,

	// temporal
	"date": TypeDate, "datetime": TypeDate, "datetime2": TypeDate,
	"smalldatetime": TypeDate, "datetimeoffset": TypeDate,
	"timestamp": TypeDate, "timestamptz": TypeDate,

	// binary
	"binary": TypeBuffer, "varbinary": TypeBuffer, "blob": TypeBuffer,
	"tinyblob": TypeBuffer, "mediumblob": TypeBuffer, "longblob": TypeBuffer,
	"bytea": TypeBuffer, "image": TypeBuffer,

	// structured
	"json": TypeAny, "jsonb": TypeAny,
}

// semanticType maps a bare SQL type name to its semantic type. Unknown types
// map to any.
func semanticType(dataType string) string {
	if t, ok := semanticTypes[baseType(dataType)]; ok {
		return t
	}
	return TypeAny
}

// baseType lowercases t and strips any length, precision or modifiers
func baseType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	return t
}

func mysqlType(dataType, columnType string) string {
	ct := strings.ToLower(columnType)
	if ct == "tinyint(1)" || ct == "bit(1)" {
		return TypeBoolean
	}
	return semanticType(dataType)
}

func postgresType(dataType, _ string) string {
	// array types are prefixed with an underscore
	if strings.HasPrefix(dataType, "_") {
		return TypeAny
	}
	return semanticType(dataType)
}

func sqlserverType(dataType, _ string) string {
	if strings.EqualFold(dataType, "bit") {
		return TypeBoolean
	}
	return semanticType(dataType)
}

// sqliteType applies SQLite's column affinity rules to declared types that
// are not in the common table.
func sqliteType(dataType, _ string) string {
	if t, ok := semanticTypes[baseType(dataType)]; ok {
		return t
	}
	dt := strings.ToUpper(dataType)
	switch {
	case dt == "":
		return TypeAny
	case strings.Contains(dt, "INT"):
		return TypeNumber
	case strings.Contains(dt, "CHAR"), strings.Contains(dt, "CLOB"), strings.Contains(dt, "TEXT"):
		return TypeString
	case strings.Contains(dt, "BLOB"):
		return TypeBuffer
	case strings.Contains(dt, "REAL"), strings.Contains(dt, "FLOA"), strings.Contains(dt, "DOUB"):
		return TypeNumber
	case strings.Contains(dt, "BOOL"):
		return TypeBoolean
	case strings.Contains(dt, "DATE"), strings.Contains(dt, "TIME"):
		return TypeDate
	}
	return TypeNumber
}

// commentLines splits a column comment into doc lines, dropping trailing
// whitespace and blank lines at either end
func commentLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.Trim(s, "\n \t")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}
