package wikitree

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/lineakit/bridgefinder/person"
)

// The API is loose about scalar types: identifiers arrive as JSON numbers
// or strings depending on the action. flexID accepts both.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	*f = flexID(b)
	return nil
}

// relGroup accepts the shapes the API uses for a relative category: an
// ID-keyed object, a list, or an empty list when the category has no
// entries. Undecodable shapes degrade to no data rather than failing.
type relGroup []apiPerson

func (g *relGroup) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '[':
		var list []apiPerson
		if err := json.Unmarshal(b, &list); err != nil {
			return nil //nolint:nilerr // shape surprise means no data
		}
		*g = list
	case '{':
		var m map[string]apiPerson
		if err := json.Unmarshal(b, &m); err != nil {
			return nil //nolint:nilerr // shape surprise means no data
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			*g = append(*g, m[k])
		}
	}
	return nil
}

// apiPerson is the wire form of one person as the API returns it.
type apiPerson struct {
	ID              flexID   `json:"Id"`
	Name            string   `json:"Name"`
	FirstName       string   `json:"FirstName"`
	MiddleName      string   `json:"MiddleName"`
	LastNameAtBirth string   `json:"LastNameAtBirth"`
	LastNameCurrent string   `json:"LastNameCurrent"`
	Suffix          string   `json:"Suffix"`
	BirthDate       string   `json:"BirthDate"`
	DeathDate       string   `json:"DeathDate"`
	BirthLocation   string   `json:"BirthLocation"`
	DeathLocation   string   `json:"DeathLocation"`
	Gender          string   `json:"Gender"`
	Father          flexID   `json:"Father"`
	Mother          flexID   `json:"Mother"`
	Parents         relGroup `json:"Parents"`
	Children        relGroup `json:"Children"`
	Spouses         relGroup `json:"Spouses"`
	Siblings        relGroup `json:"Siblings"`
}

func (p apiPerson) record() person.Record {
	return person.Record{
		ID:              string(p.ID),
		Key:             p.Name,
		FirstName:       p.FirstName,
		MiddleName:      p.MiddleName,
		LastNameAtBirth: p.LastNameAtBirth,
		LastNameCurrent: p.LastNameCurrent,
		Suffix:          p.Suffix,
		BirthDate:       p.BirthDate,
		DeathDate:       p.DeathDate,
		BirthLocation:   p.BirthLocation,
		DeathLocation:   p.DeathLocation,
		Gender:          p.Gender,
		Father:          string(p.Father),
		Mother:          string(p.Mother),
	}
}

func (p apiPerson) relatives() person.RelativeSet {
	var set person.RelativeSet
	for _, r := range p.Parents {
		set.Add(person.Parent, r.record())
	}
	for _, r := range p.Children {
		set.Add(person.Child, r.record())
	}
	for _, r := range p.Spouses {
		set.Add(person.Spouse, r.record())
	}
	for _, r := range p.Siblings {
		set.Add(person.Sibling, r.record())
	}
	return set
}
