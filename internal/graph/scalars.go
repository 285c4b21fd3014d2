package graph

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// dateLayout is the output format, always UTC with millisecond precision.
const dateLayout = "2006-01-02T15:04:05.000Z"

// Date is the custom scalar for timestamps. It serializes to an ISO-8601 string
// and accepts any RFC 3339 string on input.
var Date = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Date",
	Description: "Date scalar type",
	Serialize:   serializeDate,
	ParseValue:  parseDate,
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if v, ok := valueAST.(*ast.StringValue); ok {
			return parseDate(v.Value)
		}
		return nil
	},
})

func serializeDate(value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(dateLayout)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.UTC().Format(dateLayout)
	}
	return nil
}

func parseDate(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return t
}
