package main

import (
	"testing"

	"jta.service/internal/core/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInput(t *testing.T) {
	in := tableInput(model.NewShiftSchema("Shifts"))

	assert.Equal(t, "Shifts", aws.ToString(in.TableName))
	assert.Equal(t, types.BillingModePayPerRequest, in.BillingMode)
	require.Len(t, in.KeySchema, 2)
	assert.Equal(t, "staffID", aws.ToString(in.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, in.KeySchema[0].KeyType)
	assert.Equal(t, "startDate", aws.ToString(in.KeySchema[1].AttributeName))
	assert.Equal(t, types.KeyTypeRange, in.KeySchema[1].KeyType)
	require.Len(t, in.AttributeDefinitions, 2)
	assert.Equal(t, types.ScalarAttributeTypeS, in.AttributeDefinitions[1].AttributeType)

	staff := tableInput(model.NewStaffSchema("Staff"))
	require.Len(t, staff.KeySchema, 1)
	assert.Equal(t, "staffID", aws.ToString(staff.KeySchema[0].AttributeName))
}
