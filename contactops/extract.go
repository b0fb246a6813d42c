package contactops

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/spachava753/cardsync/card"
	"github.com/spachava753/cardsync/mappings"
)

const (
	propertyPhoneticFirstName  = "X-PHONETIC-FIRST-NAME"
	propertyPhoneticMiddleName = "X-PHONETIC-MIDDLE-NAME"
	propertyPhoneticLastName   = "X-PHONETIC-LAST-NAME"

	photoContentType = "image/jpeg"
)

type extractFunc func(c *Converter, ctx context.Context, doc *card.Document) ([]*Record, error)

type extractor struct {
	name string
	fn   extractFunc
}

// extractors run in this order; batch order follows it.
var extractors = []extractor{
	{name: "name", fn: (*Converter).extractName},
	{name: "nickname", fn: (*Converter).extractNicknames},
	{name: "phones", fn: (*Converter).extractPhones},
	{name: "emails", fn: (*Converter).extractEmails},
	{name: "addresses", fn: (*Converter).extractAddresses},
	{name: "ims", fn: (*Converter).extractIms},
	{name: "custom_fields", fn: (*Converter).extractCustomFields},
	{name: "grouped_properties", fn: (*Converter).extractGroupedProperties},
	{name: "birthdays", fn: (*Converter).extractBirthdays},
	{name: "websites", fn: (*Converter).extractWebsites},
	{name: "notes", fn: (*Converter).extractNotes},
	{name: "photos", fn: (*Converter).extractPhotos},
	{name: "organization", fn: (*Converter).extractOrganization},
}

// collect runs every extractor and returns the non-empty materialized
// records. A failing extractor contributes nothing.
func (c *Converter) collect(ctx context.Context, doc *card.Document) []Values {
	log := c.logger.WithContext(ctx)
	out := make([]Values, 0, 16)
	for _, ex := range extractors {
		records, err := ex.fn(c, ctx, doc)
		if err != nil {
			log.WithError(err).WithField("extractor", ex.name).Warn("Extractor failed, skipping its fields")
			continue
		}
		for _, rec := range records {
			values := rec.Materialize()
			if values.Len() == 0 {
				continue
			}
			out = append(out, values)
		}
	}
	return out
}

func (c *Converter) extractName(_ context.Context, doc *card.Document) ([]*Record, error) {
	rec := NewRecord(KindName)

	var prefix, given, family, suffix string
	if name := doc.StructuredName(); name != nil {
		given, family = name.Given, name.Family
		prefix, suffix = firstValue(name.Prefixes), firstValue(name.Suffixes)
		rec.PutString(NameGivenName, given)
		rec.PutString(NameFamilyName, family)
		rec.PutString(NamePrefix, prefix)
		rec.PutString(NameSuffix, suffix)
		rec.PutString(NameMiddleName, strings.Join(name.Additional, " "))
	}

	var display string
	if fn := doc.FormattedName(); fn != nil && strings.TrimSpace(fn.Value) != "" {
		display = fn.Value
	} else {
		display = displayName(prefix, given, family, suffix)
	}
	rec.PutString(NameDisplayName, display)

	rec.PutString(NamePhoneticGiven, extendedValue(doc, propertyPhoneticFirstName))
	rec.PutString(NamePhoneticMiddle, extendedValue(doc, propertyPhoneticMiddleName))
	rec.PutString(NamePhoneticFamily, extendedValue(doc, propertyPhoneticLastName))
	return []*Record{rec}, nil
}

// displayName renders "prefix given family, suffix" skipping missing parts.
func displayName(prefix, given, family, suffix string) string {
	var b strings.Builder
	for _, part := range []string{prefix, given, family} {
		if part != "" {
			b.WriteString(part)
			b.WriteByte(' ')
		}
	}
	out := b.String()
	if suffix != "" {
		if out != "" {
			out = strings.TrimSuffix(out, " ") + ", "
		}
		out += suffix
	}
	return strings.TrimSpace(out)
}

func (c *Converter) extractNicknames(_ context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, nickname := range doc.Nicknames() {
		for _, value := range nickname.Values {
			rec := NewRecord(KindNickname)
			rec.PutString(NicknameName, value)
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Converter) extractPhones(_ context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, tel := range doc.Telephones() {
		number := tel.Text
		if number == "" {
			number = tel.URI
		}
		if number == "" {
			continue
		}
		rec := NewRecord(KindPhone)
		rec.PutString(PhoneNumber, number)
		rec.PutInt(PhoneType, mappings.PhoneType(tel.Types))
		out = append(out, rec)
	}
	return out, nil
}

func (c *Converter) extractEmails(_ context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, email := range doc.Emails() {
		if email.Value == "" {
			continue
		}
		rec := NewRecord(KindEmail)
		rec.PutString(EmailAddress, email.Value)
		rec.PutInt(EmailType, mappings.EmailType(email.Types))
		out = append(out, rec)
	}
	return out, nil
}

func (c *Converter) extractAddresses(_ context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, addr := range doc.Addresses() {
		rec := NewRecord(KindPostal)
		rec.PutString(PostalStreet, addr.Street)
		rec.PutString(PostalPoBox, addr.PoBox)
		rec.PutString(PostalCity, addr.Locality)
		rec.PutString(PostalRegion, addr.Region)
		rec.PutString(PostalPostcode, addr.PostalCode)
		rec.PutString(PostalCountry, addr.Country)
		rec.PutString(PostalLabel, addr.Label)
		rec.PutInt(PostalType, mappings.AddressType(addr.Types))
		out = append(out, rec)
	}
	return out, nil
}

func (c *Converter) extractIms(_ context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, im := range mappings.IMPropertyNames() {
		for _, prop := range doc.ExtendedProperties(im.Name) {
			rec := NewRecord(KindIm)
			rec.PutString(ImData, prop.Value)
			rec.PutInt(ImProtocol, im.Protocol)
			out = append(out, rec)
		}
	}
	for _, impp := range doc.Impps() {
		rec := NewRecord(KindIm)
		rec.PutString(ImData, impp.Handle)
		rec.PutInt(ImProtocol, mappings.IMProtocolFromScheme(impp.Protocol))
		out = append(out, rec)
	}
	return out, nil
}

func (c *Converter) extractCustomFields(ctx context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, field := range doc.AndroidCustomFields() {
		if len(field.Values) == 0 {
			continue
		}
		var rec *Record
		switch {
		case field.IsNickname():
			rec = NewRecord(KindNickname)
			rec.PutString(NicknameName, field.Values[0])
		case field.IsContactEvent():
			rec = NewRecord(KindEvent)
			rec.PutString(EventStartDate, field.Values[0])
			c.putTypeCode(ctx, rec, EventType, field.Values)
		case field.IsRelation():
			rec = NewRecord(KindRelation)
			rec.PutString(RelationName, field.Values[0])
			c.putTypeCode(ctx, rec, RelationType, field.Values)
		default:
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// putTypeCode stores the second positional value as an integer code. A
// missing or non-numeric value leaves the type unset.
func (c *Converter) putTypeCode(ctx context.Context, rec *Record, key string, values []string) {
	if len(values) < 2 || strings.TrimSpace(values[1]) == "" {
		return
	}
	code, err := strconv.Atoi(strings.TrimSpace(values[1]))
	if err != nil {
		c.logger.WithContext(ctx).WithFields(map[string]any{
			"kind":  string(rec.Kind()),
			"value": values[1],
		}).Debug("Ignoring non-numeric custom field type")
		return
	}
	rec.PutInt(key, code)
}

func (c *Converter) extractGroupedProperties(_ context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, g := range groupProperties(doc.AllExtendedProperties()) {
		if len(g.members) < 2 {
			continue
		}
		if rec := reconstructGroup(g); rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Converter) extractBirthdays(ctx context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, birthday := range doc.Birthdays() {
		date, err := birthday.Date()
		if err != nil {
			c.logger.WithContext(ctx).
				WithError(&Error{Code: ErrorCodeUnresolvedTemporal, Message: "birthday skipped", Err: err}).
				Debug("Skipping birthday without calendar date")
			continue
		}
		rec := NewRecord(KindEvent)
		rec.PutInt(EventType, mappings.EventTypeBirthday)
		rec.PutString(EventStartDate, card.FormatDate(date))
		out = append(out, rec)
	}
	return out, nil
}

func (c *Converter) extractWebsites(_ context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, url := range doc.URLs() {
		if url.Value == "" {
			continue
		}
		rec := NewRecord(KindWebsite)
		rec.PutString(WebsiteURL, url.Value)
		rec.PutInt(WebsiteType, mappings.WebsiteType(url.Type))
		out = append(out, rec)
	}
	return out, nil
}

func (c *Converter) extractNotes(_ context.Context, doc *card.Document) ([]*Record, error) {
	var out []*Record
	for _, note := range doc.Notes() {
		rec := NewRecord(KindNote)
		rec.PutString(NoteText, note.Value)
		out = append(out, rec)
	}
	return out, nil
}

// extractPhotos fetches every remote photo that has no bytes yet and waits
// for all fetches before emitting one record per photo. Fetch failures leave
// the photo without bytes.
func (c *Converter) extractPhotos(ctx context.Context, doc *card.Document) ([]*Record, error) {
	photos := doc.Photos()
	c.fetchPhotos(ctx, photos)

	out := make([]*Record, 0, len(photos))
	for _, photo := range photos {
		rec := NewRecord(KindPhoto)
		rec.PutBytes(PhotoData, photo.Data())
		out = append(out, rec)
	}
	return out, nil
}

func (c *Converter) fetchPhotos(ctx context.Context, photos []*card.Photo) {
	log := c.logger.WithContext(ctx)
	var g errgroup.Group
	g.SetLimit(c.photoFetchLimit)
	for _, photo := range photos {
		if !photo.IsRemote() || len(photo.Data()) > 0 {
			continue
		}
		if c.fetcher == nil {
			log.WithField("url", photo.URL).Debug("No asset fetcher configured, skipping remote photo")
			continue
		}
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, c.photoFetchTimeout)
			defer cancel()

			data, err := c.fetcher.Fetch(fetchCtx, photo.URL)
			if err != nil {
				log.WithError(&Error{Code: ErrorCodeAssetFetch, Message: photo.URL, Err: err}).
					Warn("Failed to fetch contact photo")
				return nil
			}
			photo.SetData(data, photoContentType)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Converter) extractOrganization(_ context.Context, doc *card.Document) ([]*Record, error) {
	rec := NewRecord(KindOrganization)
	if org := doc.Organization(); org != nil {
		keys := []string{OrganizationCompany, OrganizationDepartment, OrganizationOfficeLocation}
		for i, key := range keys {
			if i >= len(org.Values) {
				break
			}
			rec.PutString(key, org.Values[i])
		}
	}
	if titles := doc.Titles(); len(titles) > 0 {
		rec.PutString(OrganizationTitle, titles[0].Value)
	}
	return []*Record{rec}, nil
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func extendedValue(doc *card.Document, name string) string {
	if prop := doc.ExtendedProperty(name); prop != nil {
		return prop.Value
	}
	return ""
}
