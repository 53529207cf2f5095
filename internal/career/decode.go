package career

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/recommendations.json
var recommendationsSchema string

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(recommendationsSchema))
	})
	return schema, schemaErr
}

// SchemaError reports a response body that does not have the
// Recommendations shape.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("recommendations do not match schema: %s", strings.Join(e.Problems, "; "))
}

// DecodeRecommendations validates body against the recommendations schema
// and decodes it. Sections absent from the body come back as empty slices,
// so any JSON object without conflicting keys decodes successfully.
func DecodeRecommendations(body []byte) (Recommendations, error) {
	s, err := loadSchema()
	if err != nil {
		return Recommendations{}, fmt.Errorf("loading recommendations schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return Recommendations{}, fmt.Errorf("decoding recommendations: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
		}
		return Recommendations{}, &SchemaError{Problems: problems}
	}

	var recs Recommendations
	if err := json.Unmarshal(body, &recs); err != nil {
		return Recommendations{}, fmt.Errorf("decoding recommendations: %w", err)
	}
	return recs.Clone(), nil
}
