package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidPatch is returned for update bodies that are not a JSON object,
// name a field that cannot be updated, or carry a value of the wrong type.
var ErrInvalidPatch = errors.New("invalid patch")

// Field is one optional member of a patch.
type Field[T any] struct {
	Set   bool
	Value T
}

func (f *Field[T]) assign(raw json.RawMessage) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	f.Set = true
	f.Value = v
	return nil
}

// PostPatch is a partial update. Only the fields below are updatable; ids,
// timestamps and counters are owned by the store.
type PostPatch struct {
	Title       Field[string]
	Content     Field[string]
	Author      Field[*string]
	Category    Field[*string]
	AuthorID    Field[*int64]
	IsPublished Field[bool]
}

type patchSetter struct {
	nullable bool
	set      func(p *PostPatch, raw json.RawMessage) error
}

var patchSetters = map[string]patchSetter{
	"title":        {set: func(p *PostPatch, raw json.RawMessage) error { return p.Title.assign(raw) }},
	"content":      {set: func(p *PostPatch, raw json.RawMessage) error { return p.Content.assign(raw) }},
	"author":       {nullable: true, set: func(p *PostPatch, raw json.RawMessage) error { return p.Author.assign(raw) }},
	"category":     {nullable: true, set: func(p *PostPatch, raw json.RawMessage) error { return p.Category.assign(raw) }},
	"author_id":    {nullable: true, set: func(p *PostPatch, raw json.RawMessage) error { return p.AuthorID.assign(raw) }},
	"is_published": {set: func(p *PostPatch, raw json.RawMessage) error { return p.IsPublished.assign(raw) }},
}

// ParsePostPatch decodes a JSON object into a PostPatch.
func ParsePostPatch(data []byte) (*PostPatch, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidPatch)
	}

	patch := &PostPatch{}
	for key, raw := range fields {
		setter, ok := patchSetters[key]
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not updatable", ErrInvalidPatch, key)
		}
		if !setter.nullable && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: field %q cannot be null", ErrInvalidPatch, key)
		}
		if err := setter.set(patch, raw); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidPatch, key, err)
		}
	}
	return patch, nil
}

// Apply overwrites the fields set in the patch.
func (pp *PostPatch) Apply(p *Post) {
	if pp.Title.Set {
		p.Title = pp.Title.Value
	}
	if pp.Content.Set {
		p.Content = pp.Content.Value
	}
	if pp.Author.Set {
		p.Author = pp.Author.Value
	}
	if pp.Category.Set {
		p.Category = pp.Category.Value
	}
	if pp.AuthorID.Set {
		p.AuthorID = pp.AuthorID.Value
	}
	if pp.IsPublished.Set {
		p.IsPublished = pp.IsPublished.Value
	}
}
