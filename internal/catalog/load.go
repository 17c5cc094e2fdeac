package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed data/sample.yml
var sampleYAML []byte

// document is the on-disk layout of a catalog file.
type document struct {
	Release   Release    `yaml:"release"`
	Chapters  []Chapter  `yaml:"chapters"`
	Questions []Question `yaml:"questions"`
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

const schemaURL = "schema://inference-catalog.json"

// Parse decodes a YAML catalog, checks it against the document schema and
// builds the Catalog.
func Parse(data []byte) (*Catalog, error) {
	if err := checkShape(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Release, doc.Chapters, doc.Questions)
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Sample returns the catalog bundled with the binary.
func Sample() (*Catalog, error) {
	return Parse(sampleYAML)
}

// Load returns the catalog at path, or the bundled sample when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Sample()
	}
	return LoadFile(path)
}

// checkShape validates the raw document against documentSchema.
func checkShape(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse catalog yaml: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("catalog is empty")
	}

	inst, err := toJSONValue(raw)
	if err != nil {
		return fmt.Errorf("convert catalog to json: %w", err)
	}

	sch, err := schema()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("catalog schema validation failed: %w", err)
	}
	return nil
}

// toJSONValue round-trips v through JSON so numbers arrive as json.Number
// and mappings as map[string]any, which is what the schema library expects.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(b))
}

func schema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		def, err := toJSONValue(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile catalog schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}
