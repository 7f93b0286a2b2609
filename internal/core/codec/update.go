package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"jta.service/internal/core/model"
	"jta.service/internal/ports/repository"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	ErrEmptyUpdates = errors.New("updates must contain at least one field")
	ErrUnknownField = errors.New("unknown field")
	ErrKeyField     = errors.New("key fields cannot be updated")
	ErrInvalidValue = errors.New("invalid value")
)

// BuildUpdate validates updates against schema and returns the typed
// assignments of a SET instruction, ordered by field name.
//
// String fields take JSON strings only. Number fields take JSON numbers or
// strings holding a number; the numeric text is kept as given, so "16.0" is
// stored as a float and "16" as an integer.
func BuildUpdate(schema model.Schema, updates map[string]any) ([]repository.Assignment, error) {
	if len(updates) == 0 {
		return nil, ErrEmptyUpdates
	}

	fields := make([]string, 0, len(updates))
	for f := range updates {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	set := make([]repository.Assignment, 0, len(fields))
	for _, f := range fields {
		kind, ok := schema.Fields[f]
		if !ok {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownField, f, schema.Name)
		}
		if schema.IsKey(f) {
			return nil, fmt.Errorf("%w: %q", ErrKeyField, f)
		}

		av, err := encodeScalar(kind, updates[f])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		set = append(set, repository.Assignment{Field: f, Value: av})
	}
	return set, nil
}

func encodeScalar(kind model.Kind, raw any) (types.AttributeValue, error) {
	switch kind {
	case model.KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, raw)
		}
		return &types.AttributeValueMemberS{Value: s}, nil
	case model.KindNumber:
		text, err := numberText(raw)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberN{Value: text}, nil
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedType, kind)
	}
}

func numberText(raw any) (string, error) {
	switch v := raw.(type) {
	case json.Number:
		return checkNumber(v.String())
	case string:
		return checkNumber(strings.TrimSpace(v))
	case float64:
		return checkNumber(model.Decimal(v).String())
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, raw)
	}
}

func checkNumber(text string) (string, error) {
	if _, err := model.ParseNumber(text); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return text, nil
}
