package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

func TestStringAttrFallsBackToLegacyName(t *testing.T) {
	item := Item{
		"action": &types.AttributeValueMemberS{Value: "REGISTRO DE BUS"},
	}

	got := StringAttr(item, "activityType", "action")
	require.NotNil(t, got)
	require.Equal(t, "REGISTRO DE BUS", *got)
}

func TestStringAttrAbsentYieldsNil(t *testing.T) {
	item := Item{
		"detail": &types.AttributeValueMemberS{Value: "ok"},
	}

	require.Nil(t, StringAttr(item, "ip"))
}

func TestStringAttrIgnoresMismatchedTag(t *testing.T) {
	item := Item{
		"ip": &types.AttributeValueMemberN{Value: "12345"},
	}

	require.Nil(t, StringAttr(item, "ip"))
}

func TestNumberAttrCoercesNumericString(t *testing.T) {
	item := Item{
		"createdAt": &types.AttributeValueMemberN{Value: "1717171717000"},
	}

	got := NumberAttr(item, "createdAt")
	require.NotNil(t, got)
	require.Equal(t, int64(1717171717000), *got)
}

func TestNumberAttrUnparseableCountsAsAbsent(t *testing.T) {
	item := Item{
		"createdAt": &types.AttributeValueMemberN{Value: "not-a-number"},
	}

	require.Nil(t, NumberAttr(item, "createdAt"))
}

func TestBoolAttr(t *testing.T) {
	item := Item{
		"estado": &types.AttributeValueMemberBOOL{Value: true},
	}

	got := BoolAttr(item, "estado")
	require.NotNil(t, got)
	require.True(t, *got)
	require.Nil(t, BoolAttr(item, "active"))
}

func TestMarshalItemOmitsEmptyOptionalFields(t *testing.T) {
	type record struct {
		ID string  `dynamodbav:"primaryKey"`
		IP *string `dynamodbav:"ip,omitempty"`
	}

	item, err := MarshalItem(record{ID: "a-1"})
	require.NoError(t, err)
	require.Contains(t, item, "primaryKey")
	require.NotContains(t, item, "ip")
}
