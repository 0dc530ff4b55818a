package ankitab

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/conorfennell/ankitab/internal/sqlitedb"
)

// Model describes a note type: its ordered field names and the card
// templates that can be generated from it.
type Model struct {
	ID           int64
	Name         string
	FieldNames   []string
	TemplateOrds []int
	SortField    int
}

// Deck is a named grouping of cards.
type Deck struct {
	ID       int64
	Name     string
	ConfigID int64
}

// meta is the metadata part of the session snapshot: everything from the
// col row, parsed once at open. Lookup maps are read-only except through
// RenameDeck, which also flags the decks blob for persisting.
type meta struct {
	raw *sqlitedb.Meta

	models map[int64]*Model
	decks  map[int64]*Deck

	// Raw JSON objects per deck, keyed by decimal ID. Kept so a rename
	// only touches the name and every other key survives the round trip.
	decksRaw map[string]map[string]any

	deckConfNames map[int64]string

	decksDirty bool
}

type modelJSON struct {
	Name      string `json:"name"`
	SortField int    `json:"sortf"`
	Fields    []struct {
		Name string `json:"name"`
		Ord  int    `json:"ord"`
	} `json:"flds"`
	Templates []struct {
		Name string `json:"name"`
		Ord  int    `json:"ord"`
	} `json:"tmpls"`
}

func parseMeta(raw *sqlitedb.Meta) (*meta, error) {
	m := &meta{
		raw:           raw,
		models:        make(map[int64]*Model),
		decks:         make(map[int64]*Deck),
		decksRaw:      make(map[string]map[string]any),
		deckConfNames: make(map[int64]string),
	}

	var models map[string]modelJSON
	if err := json.Unmarshal([]byte(raw.Models), &models); err != nil {
		return nil, fmt.Errorf("failed to parse models metadata: %w", err)
	}
	for key, mj := range models {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("model key %q is not an ID: %w", key, err)
		}
		model := &Model{ID: id, Name: mj.Name, SortField: mj.SortField}
		// Field order is given by ord, not by JSON position.
		fields := append([]struct {
			Name string `json:"name"`
			Ord  int    `json:"ord"`
		}(nil), mj.Fields...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Ord < fields[j].Ord })
		for _, f := range fields {
			model.FieldNames = append(model.FieldNames, f.Name)
		}
		for _, t := range mj.Templates {
			model.TemplateOrds = append(model.TemplateOrds, t.Ord)
		}
		sort.Ints(model.TemplateOrds)
		m.models[id] = model
	}

	if err := json.Unmarshal([]byte(raw.Decks), &m.decksRaw); err != nil {
		return nil, fmt.Errorf("failed to parse decks metadata: %w", err)
	}
	for key, obj := range m.decksRaw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("deck key %q is not an ID: %w", key, err)
		}
		deck := &Deck{ID: id}
		if name, ok := obj["name"].(string); ok {
			deck.Name = name
		}
		if conf, ok := obj["conf"].(float64); ok {
			deck.ConfigID = int64(conf)
		}
		m.decks[id] = deck
	}

	var confs map[string]map[string]any
	if err := json.Unmarshal([]byte(raw.DeckConfs), &confs); err != nil {
		return nil, fmt.Errorf("failed to parse deck config metadata: %w", err)
	}
	for key, obj := range confs {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("deck config key %q is not an ID: %w", key, err)
		}
		if name, ok := obj["name"].(string); ok {
			m.deckConfNames[id] = name
		}
	}

	return m, nil
}

// marshalDecks re-serializes the decks blob after renames.
func (m *meta) marshalDecks() (string, error) {
	out, err := json.Marshal(m.decksRaw)
	if err != nil {
		return "", fmt.Errorf("failed to serialize decks metadata: %w", err)
	}
	return string(out), nil
}

func (m *meta) deckByName(name string) (*Deck, error) {
	var found *Deck
	for _, d := range m.decks {
		if d.Name != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("deck name %q is ambiguous: %w", name, ErrNotFound)
		}
		found = d
	}
	if found == nil {
		return nil, fmt.Errorf("deck %q: %w", name, ErrNotFound)
	}
	return found, nil
}

func (m *meta) modelByName(name string) (*Model, error) {
	var found *Model
	for _, md := range m.models {
		if md.Name != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("model name %q is ambiguous: %w", name, ErrNotFound)
		}
		found = md
	}
	if found == nil {
		return nil, fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	return found, nil
}

// FieldNames returns the ordered field names of a model.
func (c *Collection) FieldNames(modelID int64) ([]string, error) {
	model, ok := c.meta.models[modelID]
	if !ok {
		return nil, fmt.Errorf("model %d: %w", modelID, ErrNotFound)
	}
	return append([]string(nil), model.FieldNames...), nil
}

// ModelName resolves a model ID to its name.
func (c *Collection) ModelName(modelID int64) (string, error) {
	model, ok := c.meta.models[modelID]
	if !ok {
		return "", fmt.Errorf("model %d: %w", modelID, ErrNotFound)
	}
	return model.Name, nil
}

// ModelID resolves a model name to its ID. Absent and ambiguous names
// both fail with ErrNotFound.
func (c *Collection) ModelID(name string) (int64, error) {
	model, err := c.meta.modelByName(name)
	if err != nil {
		return 0, err
	}
	return model.ID, nil
}

// DeckName resolves a deck ID to its name.
func (c *Collection) DeckName(deckID int64) (string, error) {
	deck, ok := c.meta.decks[deckID]
	if !ok {
		return "", fmt.Errorf("deck %d: %w", deckID, ErrNotFound)
	}
	return deck.Name, nil
}

// DeckID resolves a deck name to its ID. Absent and ambiguous names both
// fail with ErrNotFound; there is no silent default deck.
func (c *Collection) DeckID(name string) (int64, error) {
	deck, err := c.meta.deckByName(name)
	if err != nil {
		return 0, err
	}
	return deck.ID, nil
}

// DeckConfigName resolves a deck configuration ID to its name.
func (c *Collection) DeckConfigName(configID int64) (string, error) {
	name, ok := c.meta.deckConfNames[configID]
	if !ok {
		return "", fmt.Errorf("deck config %d: %w", configID, ErrNotFound)
	}
	return name, nil
}

// RenameDeck renames a deck in the session snapshot. The new name is
// visible to all subsequent resolutions immediately and persisted with
// the next successful Write.
func (c *Collection) RenameDeck(oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("new deck name must not be empty")
	}
	if _, err := c.meta.deckByName(newName); err == nil {
		return fmt.Errorf("deck %q already exists", newName)
	}
	deck, err := c.meta.deckByName(oldName)
	if err != nil {
		return err
	}
	deck.Name = newName
	key := strconv.FormatInt(deck.ID, 10)
	if obj, ok := c.meta.decksRaw[key]; ok {
		obj["name"] = newName
	}
	c.meta.decksDirty = true
	Logger.Debug().Str("from", oldName).Str("to", newName).Msg("deck renamed")
	return nil
}

// ListDecks returns the sorted deck names of the collection.
func (c *Collection) ListDecks() []string {
	names := make([]string, 0, len(c.meta.decks))
	for _, d := range c.meta.decks {
		if d.Name != "" {
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)
	return names
}

// ListModels returns the sorted model names of the collection.
func (c *Collection) ListModels() []string {
	names := make([]string, 0, len(c.meta.models))
	for _, m := range c.meta.models {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}
