// Package codec converts between plain Go values and the store's typed-value
// encoding, where every attribute is tagged either S (string) or N (number).
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"jta.service/internal/ports/repository"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrUnsupportedType is returned when a stored attribute carries a tag other than S or N.
var ErrUnsupportedType = errors.New("unsupported attribute type")

// EncodeRecord marshals a record struct using its dynamodbav tags.
func EncodeRecord(rec any) (repository.Item, error) {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return item, nil
}

// EncodeKey turns a key into S-typed attributes.
func EncodeKey(key repository.Key) (repository.Item, error) {
	item, err := attributevalue.MarshalMap(map[string]string(key))
	if err != nil {
		return nil, fmt.Errorf("encode key: %w", err)
	}
	return item, nil
}

// DecodeValue converts a typed attribute into a plain scalar. N values without
// a decimal point become int64, everything else numeric becomes float64.
func DecodeValue(av types.AttributeValue) (any, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		return decodeNumber(v.Value)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, av)
	}
}

func decodeNumber(text string) (any, error) {
	if !strings.Contains(text, ".") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, nil
		}
		// exponent notation or out of int64 range
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("decode number %q: %w", text, err)
	}
	return f, nil
}

// DecodeItem converts every attribute of item. A nil or empty item yields an
// empty, non-nil map.
func DecodeItem(item repository.Item) (map[string]any, error) {
	out := make(map[string]any, len(item))
	for name, av := range item {
		v, err := DecodeValue(av)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// DecodeItems decodes a scan result. An empty result yields an empty, non-nil slice.
func DecodeItems(items []repository.Item) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rec, err := DecodeItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
