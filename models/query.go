package models

// AttributeType identifies the DynamoDB attribute type of a key value
type AttributeType int

const (
	StringType AttributeType = iota
	NumberType
	BinaryType
)

// QueryConfig describes a single-key DynamoDB lookup, either against the
// table's primary key or one of its global secondary indexes.
type QueryConfig struct {
	TableName string
	IndexName string // empty for primary key lookups
	KeyName   string
	KeyValue  string
	KeyType   AttributeType
}

// UsesIndex reports whether the lookup goes through a secondary index
func (q QueryConfig) UsesIndex() bool {
	return q.IndexName != ""
}
