package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Document keys owned by the service. Anything else in a record is author-supplied.
const (
	FieldID              = "id"
	FieldPrimaryTitle    = "primaryTitle"
	FieldNormalizedTitle = "normalizedTitle"
	FieldYear            = "year"
	FieldImageURL        = "imageUrl"
	FieldVideoURL        = "videoUrl"
	// FieldAssetNamespace is the store prefix every asset of the record lives under.
	// It is fixed at creation and never leaves the service.
	FieldAssetNamespace = "assetNamespace"
)

// Movie is one record of the peliculas collection.
type Movie struct {
	ID              string
	PrimaryTitle    string
	NormalizedTitle string
	Year            *int
	ImageURL        string
	VideoURL        string
	AssetNamespace  string
	// Extra holds author-supplied fields that pass through unvalidated.
	Extra map[string]any
}

func isReserved(key string) bool {
	switch key {
	case FieldID, FieldPrimaryTitle, FieldNormalizedTitle, FieldYear, FieldImageURL, FieldVideoURL, FieldAssetNamespace:
		return true
	}
	return false
}

// IsStorableKey reports whether key can be persisted verbatim by every document
// store. Mongo reads dots as paths and a leading $ as an operator.
func IsStorableKey(key string) bool {
	return key != "" && !strings.HasPrefix(key, "$") && !strings.Contains(key, ".")
}

// Document flattens the record into the shape persisted by the document stores.
// The id is not part of the document.
func (m *Movie) Document() map[string]any {
	doc := make(map[string]any, len(m.Extra)+5)
	for k, v := range m.Extra {
		if !isReserved(k) {
			doc[k] = v
		}
	}
	doc[FieldPrimaryTitle] = m.PrimaryTitle
	doc[FieldNormalizedTitle] = m.NormalizedTitle
	if m.Year != nil {
		doc[FieldYear] = *m.Year
	}
	if m.ImageURL != "" {
		doc[FieldImageURL] = m.ImageURL
	}
	if m.VideoURL != "" {
		doc[FieldVideoURL] = m.VideoURL
	}
	if m.AssetNamespace != "" {
		doc[FieldAssetNamespace] = m.AssetNamespace
	}
	return doc
}

// MovieFromDocument rebuilds a record from a stored document.
func MovieFromDocument(id string, doc map[string]any) *Movie {
	m := &Movie{ID: id, Extra: map[string]any{}}
	for k, v := range doc {
		switch k {
		case FieldID, "_id":
		case FieldPrimaryTitle:
			m.PrimaryTitle, _ = v.(string)
		case FieldNormalizedTitle:
			m.NormalizedTitle, _ = v.(string)
		case FieldYear:
			if y, ok := ToInt(v); ok {
				m.Year = &y
			}
		case FieldImageURL:
			m.ImageURL, _ = v.(string)
		case FieldVideoURL:
			m.VideoURL, _ = v.(string)
		case FieldAssetNamespace:
			m.AssetNamespace, _ = v.(string)
		default:
			m.Extra[k] = v
		}
	}
	return m
}

// Merge applies a shallow field patch on top of the record. Keys absent from the
// patch are preserved.
func (m *Movie) Merge(fields map[string]any) {
	for k, v := range fields {
		switch k {
		case FieldID:
		case FieldPrimaryTitle:
			m.PrimaryTitle, _ = v.(string)
		case FieldNormalizedTitle:
			m.NormalizedTitle, _ = v.(string)
		case FieldYear:
			if y, ok := ToInt(v); ok {
				m.Year = &y
			}
		case FieldImageURL:
			m.ImageURL, _ = v.(string)
		case FieldVideoURL:
			m.VideoURL, _ = v.(string)
		case FieldAssetNamespace:
			m.AssetNamespace, _ = v.(string)
		default:
			if m.Extra == nil {
				m.Extra = map[string]any{}
			}
			m.Extra[k] = v
		}
	}
}

func (m Movie) MarshalJSON() ([]byte, error) {
	doc := m.Document()
	delete(doc, FieldAssetNamespace)
	if m.ID != "" {
		doc[FieldID] = m.ID
	}
	return json.Marshal(doc)
}

func (m *Movie) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("unmarshal Movie: %w", err)
	}
	id, _ := doc[FieldID].(string)
	*m = *MovieFromDocument(id, doc)
	return nil
}

// ToInt converts the numeric shapes produced by JSON and the store drivers.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
