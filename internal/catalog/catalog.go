// Package catalog loads the static question catalog. A catalog is only ever
// handed out after it passed schema and consistency validation.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"rspo-readiness/internal/model"
)

//go:embed data/questions.yaml
var defaultYAML []byte

//go:embed data/catalog.schema.json
var schemaJSON []byte

const schemaURL = "schema://catalog.json"

// StageDef is one stage of the questionnaire in declaration order
type StageDef struct {
	Stage       model.Stage      `json:"stage" yaml:"stage"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description,omitempty" yaml:"description"`
	Questions   []model.Question `json:"questions" yaml:"questions"`
}

type document struct {
	Version    int                       `yaml:"version"`
	OptionSets map[string][]model.Option `yaml:"optionSets"`
	Stages     []StageDef                `yaml:"stages"`
}

type questionRef struct {
	stage model.Stage
	index int
}

type subRef struct {
	stage  model.Stage
	parent int
	index  int
}

// Catalog is the immutable universe of questions across the three stages
type Catalog struct {
	version   int
	stages    map[model.Stage]*StageDef
	questions map[string]questionRef
	subs      map[string]subRef
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error

	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Default returns the embedded catalog
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(defaultYAML)
	})
	return defaultCat, defaultErr
}

// LoadFile reads and validates a catalog from disk
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML catalog data, validates it and builds the lookup indexes
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return build(doc), nil
}

func build(doc document) *Catalog {
	c := &Catalog{
		version:   doc.Version,
		stages:    make(map[model.Stage]*StageDef, len(doc.Stages)),
		questions: make(map[string]questionRef),
		subs:      make(map[string]subRef),
	}
	for i := range doc.Stages {
		st := &doc.Stages[i]
		if st.Questions == nil {
			st.Questions = []model.Question{}
		}
		c.stages[st.Stage] = st
		for qi, q := range st.Questions {
			c.questions[q.ID] = questionRef{stage: st.Stage, index: qi}
			for si, sub := range q.SubQuestions {
				c.subs[sub.ID] = subRef{stage: st.Stage, parent: qi, index: si}
			}
		}
	}
	return c
}

func validateSchema(raw any) error {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	if schemaErr != nil {
		return schemaErr
	}

	// The validator wants JSON-shaped values, not the YAML decoder's output.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("convert catalog: %w", err)
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("convert catalog: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	return nil
}

// Version is the catalog data version
func (c *Catalog) Version() int {
	return c.version
}

// Stages returns copies of the stage definitions in order
func (c *Catalog) Stages() []*StageDef {
	out := make([]*StageDef, 0, len(model.Stages))
	for _, s := range model.Stages {
		if st, ok := c.stages[s]; ok {
			out = append(out, st.clone())
		}
	}
	return out
}

// Stage returns a copy of the definition of stage s
func (c *Catalog) Stage(s model.Stage) (*StageDef, bool) {
	st, ok := c.stages[s]
	if !ok {
		return nil, false
	}
	return st.clone(), true
}

// Questions returns copies of the questions of stage s in declaration order
func (c *Catalog) Questions(s model.Stage) []model.Question {
	if st, ok := c.stages[s]; ok {
		return cloneQuestions(st.Questions)
	}
	return nil
}

// Question finds a top-level question and the stage it belongs to.
// The returned question is a copy.
func (c *Catalog) Question(id string) (*model.Question, model.Stage, bool) {
	ref, ok := c.questions[id]
	if !ok {
		return nil, 0, false
	}
	q := c.stages[ref.stage].Questions[ref.index].Clone()
	return &q, ref.stage, true
}

// SubQuestion finds a sub-question and its parent, both copied
func (c *Catalog) SubQuestion(id string) (*model.SubQuestion, *model.Question, bool) {
	ref, ok := c.subs[id]
	if !ok {
		return nil, nil, false
	}
	parent := c.stages[ref.stage].Questions[ref.parent].Clone()
	return &parent.SubQuestions[ref.index], &parent, true
}

func (st *StageDef) clone() *StageDef {
	out := *st
	out.Questions = cloneQuestions(st.Questions)
	return &out
}

func cloneQuestions(qs []model.Question) []model.Question {
	out := make([]model.Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// Size is the number of top-level questions across all stages
func (c *Catalog) Size() int {
	return len(c.questions)
}
