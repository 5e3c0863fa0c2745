package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iwvelando/brewery-planner/internal/scenario"
	"github.com/iwvelando/brewery-planner/pkg/constants"
	"go.uber.org/zap"
)

// Document keys.
const (
	keyScenarios = "scenarios"
	keySelected  = "selected"
)

var errInvalidShape = errors.New("scenarios is neither an object nor a list")

// shape is the persisted layout of a document, detected by probing the
// scenarios key.
type shape int

const (
	// shapeCurrent has scenarios as an object of name -> scenario.
	shapeCurrent shape = iota
	// shapeLegacySingle has no scenarios key; the document is one scenario.
	shapeLegacySingle
	// shapeLegacyList has scenarios as a list of objects.
	shapeLegacyList
	// shapeInvalid is anything else.
	shapeInvalid
)

func (sh shape) String() string {
	switch sh {
	case shapeCurrent:
		return "current"
	case shapeLegacySingle:
		return "legacy-single"
	case shapeLegacyList:
		return "legacy-list"
	default:
		return "invalid"
	}
}

// namedRecord is a scenario record with its name, in document order.
type namedRecord struct {
	name   string
	record map[string]any
}

func detectShape(top map[string]json.RawMessage) shape {
	raw, ok := top[keyScenarios]
	if !ok {
		return shapeLegacySingle
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return shapeInvalid
	}
	switch trimmed[0] {
	case '{':
		return shapeCurrent
	case '[':
		return shapeLegacyList
	default:
		return shapeInvalid
	}
}

// Load decodes a persisted document, upgrading legacy shapes. It never
// fails: an unreadable or structurally invalid document yields a store with
// the default scenario, and an unresolved selection is reset to the first
// scenario. Both cases are logged at warn.
func Load(data []byte, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		logger.Warn("store document is not a JSON object, starting from defaults",
			zap.String("op", "store.Load"),
			zap.Error(err),
		)
		return New(logger)
	}

	sh := detectShape(top)
	var records []namedRecord
	var err error
	switch sh {
	case shapeCurrent:
		records, err = decodeCurrent(top[keyScenarios])
	case shapeLegacySingle:
		records, err = migrateLegacySingle(data)
	case shapeLegacyList:
		records, err = migrateLegacyList(top[keyScenarios])
	default:
		err = errInvalidShape
	}
	if err != nil {
		logger.Warn("failed to decode scenarios, starting from defaults",
			zap.String("op", "store.Load"),
			zap.String("shape", sh.String()),
			zap.Error(err),
		)
		return New(logger)
	}
	if sh != shapeCurrent {
		logger.Info(fmt.Sprintf("migrated %s document with %d scenarios", sh, len(records)),
			zap.String("op", "store.Load"),
		)
	}

	s := empty(logger)
	for _, r := range records {
		s.put(r.name, scenario.FromRecord(r.record))
	}
	if s.Len() == 0 {
		logger.Warn("store document has no usable scenarios, starting from defaults",
			zap.String("op", "store.Load"),
			zap.String("shape", sh.String()),
		)
		return New(logger)
	}

	if sh == shapeLegacySingle {
		s.selected = constants.DefaultScenarioName
	} else {
		var selected string
		if raw, ok := top[keySelected]; ok {
			_ = json.Unmarshal(raw, &selected)
		}
		s.selected = selected
	}
	if !s.Has(s.selected) {
		logger.Warn(fmt.Sprintf("selected scenario %q not found, selecting %q", s.selected, s.names[0]),
			zap.String("op", "store.Load"),
		)
		s.selected = s.names[0]
	}
	return s
}

// decodeCurrent reads the scenarios object keeping key order. Entries that
// are not objects are skipped.
func decodeCurrent(raw json.RawMessage) ([]namedRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var records []namedRecord
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected scenario key %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		rec, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if i, dup := seen[name]; dup {
			records[i].record = rec
			continue
		}
		seen[name] = len(records)
		records = append(records, namedRecord{name: name, record: rec})
	}
	return records, nil
}

// migrateLegacySingle treats the whole document as one scenario. Known keys
// are picked, renamed keys are moved to their current names when the current
// name is absent, and the result is merged over the defaults ignoring nulls.
func migrateLegacySingle(data []byte) ([]namedRecord, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	keys := append([]string{scenario.LegacyKeyOpex, scenario.LegacyKeyPrices}, scenario.KnownKeys...)
	picked := make(map[string]any)
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			picked[k] = v
		}
	}
	renames := map[string]string{
		scenario.LegacyKeyOpex:   scenario.KeyOpex,
		scenario.LegacyKeyPrices: scenario.KeyPrices,
	}
	for legacy, current := range renames {
		v, ok := picked[legacy]
		if !ok {
			continue
		}
		delete(picked, legacy)
		if _, exists := picked[current]; !exists {
			picked[current] = v
		}
	}

	base := scenario.Default().Record()
	for k, v := range picked {
		if v != nil {
			base[k] = v
		}
	}
	return []namedRecord{{name: constants.DefaultScenarioName, record: base}}, nil
}

// migrateLegacyList turns a list of scenario objects into named records.
// Names come from "name" or "Nome", else "Cenário N" by list position; data
// is the nested "data" object when present, else the element itself.
// Elements that are not objects are skipped.
func migrateLegacyList(raw json.RawMessage) ([]namedRecord, error) {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	var records []namedRecord
	seen := make(map[string]int)
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := legacyName(obj, i)
		rec := obj
		if nested, ok := obj["data"].(map[string]any); ok && len(nested) > 0 {
			rec = nested
		}
		if idx, dup := seen[name]; dup {
			records[idx].record = rec
			continue
		}
		seen[name] = len(records)
		records = append(records, namedRecord{name: name, record: rec})
	}
	return records, nil
}

func legacyName(obj map[string]any, index int) string {
	for _, key := range []string{"name", "Nome"} {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			if v != 0 {
				return fmt.Sprint(v)
			}
		case bool:
			if v {
				return "True"
			}
		}
	}
	return fmt.Sprintf(constants.LegacyScenarioNameFormat, index+1)
}

// orderedScenarios marshals as a JSON object in store order.
type orderedScenarios struct {
	names     []string
	scenarios map[string]*scenario.Scenario
}

func (o orderedScenarios) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range o.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := marshalNoEscape(o.scenarios[name].Record())
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type document struct {
	Scenarios orderedScenarios `json:"scenarios"`
	Selected  string           `json:"selected"`
}

// Marshal encodes the store as an indented UTF-8 JSON document without HTML
// escaping.
func (s *Store) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	doc := document{
		Scenarios: orderedScenarios{names: s.names, scenarios: s.scenarios},
		Selected:  s.selected,
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode store: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
