package dynamo

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// The readers below decode single attributes from the store's tagged wire
// format. Historical records were written under drifting schema versions, so
// each reader accepts a list of attribute names (canonical first, legacy
// fallbacks after) and returns nil when none is present or the tag does not
// match. Callers substitute their own defaults; decoding never fails a batch.

// StringAttr returns the first present string attribute among names.
func StringAttr(item Item, names ...string) *string {
	for _, name := range names {
		if attr, ok := item[name].(*types.AttributeValueMemberS); ok {
			v := attr.Value
			return &v
		}
	}
	return nil
}

// NumberAttr returns the first present numeric attribute among names,
// coerced from the wire's numeric string. Unparseable values count as absent.
func NumberAttr(item Item, names ...string) *int64 {
	for _, name := range names {
		attr, ok := item[name].(*types.AttributeValueMemberN)
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(attr.Value, 10, 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

// BoolAttr returns the first present boolean attribute among names.
func BoolAttr(item Item, names ...string) *bool {
	for _, name := range names {
		if attr, ok := item[name].(*types.AttributeValueMemberBOOL); ok {
			v := attr.Value
			return &v
		}
	}
	return nil
}

// String wraps a plain string as a tagged expression value.
func String(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// Number wraps an integer as a tagged expression value.
func Number(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

// Bool wraps a boolean as a tagged expression value.
func Bool(v bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: v}
}

// Key builds a single-attribute primary key.
func Key(name, value string) Item {
	return Item{name: String(value)}
}

// MarshalItem encodes a plain typed record for Put. Type tagging is handled
// by the SDK marshaller; nothing constructs attribute tags by hand on the
// write path.
func MarshalItem(v interface{}) (Item, error) {
	return attributevalue.MarshalMap(v)
}
