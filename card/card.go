package card

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emersion/go-vcard"
)

const (
	extensionPrefix = "X-"

	// PropertyAndroidCustom is the extension Android uses to export
	// nicknames, events and relations it has no native vCard property for.
	PropertyAndroidCustom = "X-ANDROID-CUSTOM"

	androidItemPrefix = "vnd.android.cursor.item/"
)

// Document is a read-only view over one decoded vCard.
//
// Accessors never fail. Missing properties are reported as nil pointers or
// empty slices.
type Document struct {
	card   vcard.Card
	photos []*Photo
}

// New wraps an already decoded card.
func New(c vcard.Card) *Document {
	if c == nil {
		c = vcard.Card{}
	}
	return &Document{card: c}
}

// Decode reads the first card from r.
func Decode(r io.Reader) (*Document, error) {
	c, err := vcard.NewDecoder(r).Decode()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("card: no vcard found: %w", err)
		}
		return nil, fmt.Errorf("card: decoding vcard failed: %w", err)
	}
	return New(c), nil
}

// DecodeAll reads every card from r in stream order.
func DecodeAll(r io.Reader) ([]*Document, error) {
	dec := vcard.NewDecoder(r)
	docs := make([]*Document, 0, 8)
	for {
		c, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("card: decoding vcard %d failed: %w", len(docs)+1, err)
		}
		docs = append(docs, New(c))
	}
}

// Card returns the underlying go-vcard card.
func (d *Document) Card() vcard.Card {
	return d.card
}

// StructuredName is the N property.
type StructuredName struct {
	Family     string
	Given      string
	Additional []string
	Prefixes   []string
	Suffixes   []string
}

// FormattedName is the FN property.
type FormattedName struct {
	Value string
}

// Nickname is one NICKNAME property, which may carry several names.
type Nickname struct {
	Values []string
}

// Telephone is one TEL property. Exactly one of Text and URI is set when the
// property has a value.
type Telephone struct {
	Text  string
	URI   string
	Types []string
}

// Email is one EMAIL property.
type Email struct {
	Value string
	Types []string
}

// Address is one ADR property.
type Address struct {
	PoBox      string
	Extended   string
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string
	Label      string
	Types      []string
}

// Impp is one IMPP property split into protocol scheme and handle.
type Impp struct {
	URI      string
	Protocol string
	Handle   string
	Types    []string
}

// URL is one URL property.
type URL struct {
	Value string
	Type  string
}

// Note is one NOTE property.
type Note struct {
	Value string
}

// Organization is the ORG property split into its positional units.
type Organization struct {
	Values []string
}

// Title is one TITLE property.
type Title struct {
	Value string
}

// RawProperty is an extension ("X-") property kept verbatim.
type RawProperty struct {
	Name  string
	Group string
	Value string
}

// AndroidCustomField is an X-ANDROID-CUSTOM property.
//
// Type is the item type without the "vnd.android.cursor.item/" prefix
// (for example "nickname"); Values holds the positional values after it.
type AndroidCustomField struct {
	Type   string
	Values []string
}

// IsNickname reports whether the field carries a nickname.
func (f AndroidCustomField) IsNickname() bool { return f.Type == "nickname" }

// IsContactEvent reports whether the field carries a dated event.
func (f AndroidCustomField) IsContactEvent() bool { return f.Type == "contact_event" }

// IsRelation reports whether the field carries a relation.
func (f AndroidCustomField) IsRelation() bool { return f.Type == "relation" }

// StructuredName returns the first N property or nil.
func (d *Document) StructuredName() *StructuredName {
	field := d.first(vcard.FieldName)
	if field == nil {
		return nil
	}
	parts := splitComponents(field.Value, ';')
	return &StructuredName{
		Family:     component(parts, 0),
		Given:      component(parts, 1),
		Additional: listValues(rawComponent(field.Value, 2)),
		Prefixes:   listValues(rawComponent(field.Value, 3)),
		Suffixes:   listValues(rawComponent(field.Value, 4)),
	}
}

// FormattedName returns the first FN property or nil.
func (d *Document) FormattedName() *FormattedName {
	field := d.first(vcard.FieldFormattedName)
	if field == nil {
		return nil
	}
	return &FormattedName{Value: unescape(field.Value)}
}

// Nicknames returns every NICKNAME property.
func (d *Document) Nicknames() []Nickname {
	fields := d.fields(vcard.FieldNickname)
	out := make([]Nickname, 0, len(fields))
	for _, field := range fields {
		out = append(out, Nickname{Values: listValues(field.Value)})
	}
	return out
}

// Telephones returns every TEL property.
func (d *Document) Telephones() []Telephone {
	fields := d.fields(vcard.FieldTelephone)
	out := make([]Telephone, 0, len(fields))
	for _, field := range fields {
		value := strings.TrimSpace(field.Value)
		tel := Telephone{Types: typesOf(field)}
		if strings.EqualFold(param(field, paramValue), "uri") || hasScheme(value, "tel") {
			tel.URI = value
		} else {
			tel.Text = unescape(value)
		}
		out = append(out, tel)
	}
	return out
}

// Emails returns every EMAIL property.
func (d *Document) Emails() []Email {
	fields := d.fields(vcard.FieldEmail)
	out := make([]Email, 0, len(fields))
	for _, field := range fields {
		out = append(out, Email{Value: strings.TrimSpace(unescape(field.Value)), Types: typesOf(field)})
	}
	return out
}

// Addresses returns every ADR property.
func (d *Document) Addresses() []Address {
	fields := d.fields(vcard.FieldAddress)
	out := make([]Address, 0, len(fields))
	for _, field := range fields {
		parts := splitComponents(field.Value, ';')
		out = append(out, Address{
			PoBox:      component(parts, 0),
			Extended:   component(parts, 1),
			Street:     component(parts, 2),
			Locality:   component(parts, 3),
			Region:     component(parts, 4),
			PostalCode: component(parts, 5),
			Country:    component(parts, 6),
			Label:      unescape(param(field, paramLabel)),
			Types:      typesOf(field),
		})
	}
	return out
}

// Impps returns every IMPP property.
func (d *Document) Impps() []Impp {
	fields := d.fields(vcard.FieldIMPP)
	out := make([]Impp, 0, len(fields))
	for _, field := range fields {
		uri := strings.TrimSpace(field.Value)
		impp := Impp{URI: uri, Types: typesOf(field)}
		if scheme, rest, ok := strings.Cut(uri, ":"); ok {
			impp.Protocol = strings.ToLower(scheme)
			impp.Handle = strings.TrimPrefix(rest, "//")
		} else {
			impp.Handle = uri
		}
		out = append(out, impp)
	}
	return out
}

// Birthdays returns every BDAY property.
func (d *Document) Birthdays() []Birthday {
	fields := d.fields(vcard.FieldBirthday)
	out := make([]Birthday, 0, len(fields))
	for _, field := range fields {
		out = append(out, Birthday{
			Value:  strings.TrimSpace(field.Value),
			IsText: strings.EqualFold(param(field, paramValue), "text"),
		})
	}
	return out
}

// URLs returns every URL property.
func (d *Document) URLs() []URL {
	fields := d.fields(vcard.FieldURL)
	out := make([]URL, 0, len(fields))
	for _, field := range fields {
		url := URL{Value: strings.TrimSpace(field.Value)}
		if types := typesOf(field); len(types) > 0 {
			url.Type = types[0]
		}
		out = append(out, url)
	}
	return out
}

// Notes returns every NOTE property.
func (d *Document) Notes() []Note {
	fields := d.fields(vcard.FieldNote)
	out := make([]Note, 0, len(fields))
	for _, field := range fields {
		out = append(out, Note{Value: unescape(field.Value)})
	}
	return out
}

// Photos returns every PHOTO property. The returned pointers are stable for
// the lifetime of the document, so data set through Photo.SetData is seen by
// later callers.
func (d *Document) Photos() []*Photo {
	if d.photos == nil {
		fields := d.fields(vcard.FieldPhoto)
		d.photos = make([]*Photo, 0, len(fields))
		for _, field := range fields {
			d.photos = append(d.photos, newPhoto(field))
		}
	}
	return d.photos
}

// Organization returns the first ORG property or nil.
func (d *Document) Organization() *Organization {
	field := d.first(vcard.FieldOrganization)
	if field == nil {
		return nil
	}
	return &Organization{Values: splitComponents(field.Value, ';')}
}

// Titles returns every TITLE property.
func (d *Document) Titles() []Title {
	fields := d.fields(vcard.FieldTitle)
	out := make([]Title, 0, len(fields))
	for _, field := range fields {
		out = append(out, Title{Value: unescape(field.Value)})
	}
	return out
}

// ExtendedProperty returns the first extension property with the given name
// or nil.
func (d *Document) ExtendedProperty(name string) *RawProperty {
	props := d.ExtendedProperties(name)
	if len(props) == 0 {
		return nil
	}
	return &props[0]
}

// ExtendedProperties returns every extension property with the given name.
// Names match case-insensitively.
func (d *Document) ExtendedProperties(name string) []RawProperty {
	var out []RawProperty
	for _, key := range d.keys() {
		if !strings.EqualFold(key, name) {
			continue
		}
		for _, field := range d.card[key] {
			out = append(out, rawProperty(key, field))
		}
	}
	return out
}

// AllExtendedProperties returns every "X-" property with its group tag.
// Properties are ordered by name, then by their order in the card.
func (d *Document) AllExtendedProperties() []RawProperty {
	var out []RawProperty
	for _, key := range d.keys() {
		if !strings.HasPrefix(strings.ToUpper(key), extensionPrefix) {
			continue
		}
		for _, field := range d.card[key] {
			out = append(out, rawProperty(key, field))
		}
	}
	return out
}

// AndroidCustomFields returns every X-ANDROID-CUSTOM property.
func (d *Document) AndroidCustomFields() []AndroidCustomField {
	props := d.ExtendedProperties(PropertyAndroidCustom)
	out := make([]AndroidCustomField, 0, len(props))
	for _, prop := range props {
		parts := splitComponents(prop.Value, ';')
		itemType := strings.TrimSpace(parts[0])
		itemType = strings.TrimPrefix(itemType, androidItemPrefix)
		out = append(out, AndroidCustomField{
			Type:   itemType,
			Values: trimTrailingEmpty(parts[1:]),
		})
	}
	return out
}

func (d *Document) first(name string) *vcard.Field {
	fields := d.fields(name)
	if len(fields) == 0 {
		return nil
	}
	return fields[0]
}

func (d *Document) fields(name string) []*vcard.Field {
	if fields, ok := d.card[name]; ok {
		return nonNil(fields)
	}
	for _, key := range d.keys() {
		if strings.EqualFold(key, name) {
			return nonNil(d.card[key])
		}
	}
	return nil
}

func (d *Document) keys() []string {
	keys := make([]string, 0, len(d.card))
	for key := range d.card {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func nonNil(fields []*vcard.Field) []*vcard.Field {
	out := fields[:0:0]
	for _, field := range fields {
		if field != nil {
			out = append(out, field)
		}
	}
	return out
}

func rawProperty(name string, field *vcard.Field) RawProperty {
	return RawProperty{
		Name:  strings.ToUpper(name),
		Group: strings.TrimSpace(field.Group),
		Value: field.Value,
	}
}

// rawComponent returns the i-th ';' component without unescaping, so that
// list separators inside it can still be told apart from escaped commas.
func rawComponent(value string, i int) string {
	n := 0
	start := 0
	for j := 0; j < len(value); j++ {
		switch value[j] {
		case '\\':
			j++
		case ';':
			if n == i {
				return value[start:j]
			}
			n++
			start = j + 1
		}
	}
	if n == i {
		return value[start:]
	}
	return ""
}

func trimTrailingEmpty(values []string) []string {
	end := len(values)
	for end > 0 && strings.TrimSpace(values[end-1]) == "" {
		end--
	}
	return values[:end]
}

func hasScheme(value string, scheme string) bool {
	return len(value) > len(scheme) && strings.EqualFold(value[:len(scheme)+1], scheme+":")
}
