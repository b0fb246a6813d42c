package contactops

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nalgeon/be"

	"github.com/spachava753/cardsync/card"
	"github.com/spachava753/cardsync/mappings"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "synthesized with prefix and suffix",
			lines: []string{"N:Doe;Jane;;Dr.;PhD"},
			want:  "Dr. Jane Doe, PhD",
		},
		{
			name:  "family only",
			lines: []string{"N:Smith;;;;"},
			want:  "Smith",
		},
		{
			name:  "formatted name wins",
			lines: []string{"N:Doe;Jane;;Dr.;PhD", "FN:J. Doe"},
			want:  "J. Doe",
		},
		{
			name:  "suffix only",
			lines: []string{"N:;;;;Jr."},
			want:  "Jr.",
		},
		{
			name:  "blank formatted name falls back",
			lines: []string{"N:Doe;Jane;;;", "FN: "},
			want:  "Jane Doe",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, decodeCard(t, tt.lines...))
			be.Err(t, err, nil)
			names := opsOfKind(ops, KindName)
			be.Equal(t, len(names), 1)
			be.Equal(t, mustString(t, names[0].Values, NameDisplayName), tt.want)
		})
	}
}

func TestDisplayNameParts(t *testing.T) {
	be.Equal(t, displayName("", "", "", ""), "")
	be.Equal(t, displayName("Dr.", "", "", ""), "Dr.")
	be.Equal(t, displayName("", "Jane", "", "III"), "Jane, III")
}

func TestNameRecordColumns(t *testing.T) {
	doc := decodeCard(t,
		"N:Doe;Jane;Quinn;Dr.;PhD",
		"X-PHONETIC-FIRST-NAME:jein",
		"X-PHONETIC-LAST-NAME:dou",
	)
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)
	v := opsOfKind(ops, KindName)[0].Values
	be.Equal(t, mustString(t, v, NameGivenName), "Jane")
	be.Equal(t, mustString(t, v, NameFamilyName), "Doe")
	be.Equal(t, mustString(t, v, NameMiddleName), "Quinn")
	be.Equal(t, mustString(t, v, NamePrefix), "Dr.")
	be.Equal(t, mustString(t, v, NameSuffix), "PhD")
	be.Equal(t, mustString(t, v, NamePhoneticGiven), "jein")
	be.Equal(t, mustString(t, v, NamePhoneticFamily), "dou")
	_, ok := v.Get(NamePhoneticMiddle)
	be.Equal(t, ok, false)
}

func TestEmptyDocumentInsertsOnlyRoot(t *testing.T) {
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{Name: "me@example.com", Type: "org.example"}, card.New(nil))
	be.Err(t, err, nil)
	be.Equal(t, len(ops), 1)
	be.Equal(t, ops[0].Type, OpInsert)
	be.Equal(t, ops[0].Table, TableRawContacts)
	be.Equal(t, mustString(t, ops[0].Values, ColumnAccountName), "me@example.com")
	be.Equal(t, mustString(t, ops[0].Values, ColumnAccountType), "org.example")

	updates, err := newTestConverter().BuildUpdate(context.Background(), card.New(nil), 7)
	be.Err(t, err, nil)
	be.Equal(t, len(updates), 0)
}

func TestInsertBatchShape(t *testing.T) {
	doc := decodeCard(t,
		"N:Doe;Jane;;;",
		"TEL;TYPE=CELL:555-0100",
		"EMAIL;TYPE=WORK:jane@example.com",
		"NOTE:hello",
	)
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{Name: "a", Type: "b"}, doc)
	be.Err(t, err, nil)
	be.Equal(t, len(ops), 5)
	be.Equal(t, ops[0].Table, TableRawContacts)
	be.True(t, ops[0].BackReference == nil)

	wantKinds := []Kind{KindName, KindPhone, KindEmail, KindNote}
	for i, op := range ops[1:] {
		be.Equal(t, op.Type, OpInsert)
		be.Equal(t, op.Table, TableData)
		be.Equal(t, *op.BackReference, BackReference{Column: ColumnRawContactID, Index: 0})
		be.True(t, op.Selection == nil)
		be.Equal(t, mustString(t, op.Values, ColumnMimeType), string(wantKinds[i]))
		be.True(t, op.Values.Len() > 1)
	}
}

func TestUpdateBatchShape(t *testing.T) {
	doc := decodeCard(t,
		"N:Doe;Jane;;;",
		"TEL;TYPE=HOME:555-0100",
	)
	ops, err := newTestConverter().BuildUpdate(context.Background(), doc, 42)
	be.Err(t, err, nil)
	be.Equal(t, len(ops), 2)
	for _, op := range ops {
		be.Equal(t, op.Type, OpUpdate)
		be.Equal(t, op.Table, TableData)
		be.True(t, op.BackReference == nil)
		be.Equal(t, op.Selection.RawContactID, int64(42))
		_, ok := op.Values.Get(ColumnMimeType)
		be.Equal(t, ok, false)
	}
	be.Equal(t, ops[0].Selection.MimeType, KindName)
	be.Equal(t, ops[1].Selection.MimeType, KindPhone)
	be.Equal(t, mustInt(t, ops[1].Values, PhoneType), mappings.PhoneTypeHome)
}

func TestBuildValidation(t *testing.T) {
	c := newTestConverter()
	ctx := context.Background()

	_, err := c.BuildInsert(ctx, Account{}, nil)
	var opErr *Error
	be.True(t, errors.As(err, &opErr))
	be.Equal(t, opErr.Code, ErrorCodeValidation)

	_, err = c.BuildUpdate(ctx, card.New(nil), 0)
	be.True(t, errors.As(err, &opErr))
	be.Equal(t, opErr.Code, ErrorCodeValidation)

	_, err = c.InsertContact(ctx, nil, Account{}, card.New(nil))
	be.True(t, errors.As(err, &opErr))
	be.Equal(t, opErr.Code, ErrorCodeValidation)
}

func TestGroupedAnniversary(t *testing.T) {
	doc := decodeCard(t,
		"item1.X-ABDATE:2020-01-01",
		"item1.X-ABLABEL:Anniversary",
		"item2.X-ABDATE:1999-09-09",
	)
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)
	events := opsOfKind(ops, KindEvent)
	be.Equal(t, len(events), 1)
	be.Equal(t, mustString(t, events[0].Values, EventStartDate), "2020-01-01")
	be.Equal(t, mustInt(t, events[0].Values, EventType), mappings.EventTypeAnniversary)
}

func TestBirthday(t *testing.T) {
	for _, value := range []string{"2000-01-02", "20000102", "2000-01-02T23:30:00-08:00", "2000-01-02T00:30:00+14:00"} {
		doc := decodeCard(t, "BDAY:"+value)
		ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
		be.Err(t, err, nil)
		events := opsOfKind(ops, KindEvent)
		be.Equal(t, len(events), 1)
		be.Equal(t, mustString(t, events[0].Values, EventStartDate), "2000-01-02")
		be.Equal(t, mustInt(t, events[0].Values, EventType), mappings.EventTypeBirthday)
	}
}

func TestUnresolvedBirthdaySkipped(t *testing.T) {
	doc := decodeCard(t, "BDAY;VALUE=text:circa 1980")
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)
	be.Equal(t, len(opsOfKind(ops, KindEvent)), 0)
}

func TestOrganizationTwoValues(t *testing.T) {
	doc := decodeCard(t, "ORG:Acme;Engineering", "TITLE:Lead", "TITLE:Other")
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)
	orgs := opsOfKind(ops, KindOrganization)
	be.Equal(t, len(orgs), 1)
	v := orgs[0].Values
	be.Equal(t, mustString(t, v, OrganizationCompany), "Acme")
	be.Equal(t, mustString(t, v, OrganizationDepartment), "Engineering")
	be.Equal(t, mustString(t, v, OrganizationTitle), "Lead")
	_, ok := v.Get(OrganizationOfficeLocation)
	be.Equal(t, ok, false)
}

func TestOrganizationExtraValuesIgnored(t *testing.T) {
	doc := decodeCard(t, "ORG:Acme;Eng;HQ;Floor 3")
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)
	v := opsOfKind(ops, KindOrganization)[0].Values
	be.Equal(t, mustString(t, v, OrganizationOfficeLocation), "HQ")
	be.Equal(t, v.Len(), 4)
}

func TestFieldExtraction(t *testing.T) {
	doc := decodeCard(t,
		"NICKNAME:JD,Janie",
		"TEL;VALUE=uri:tel:+1-555-0199",
		"EMAIL:",
		"ADR:;;;;;;",
		"ADR;TYPE=WORK:;;1 Main St;Springfield;;;",
		"X-AIM:jane.aim",
		"IMPP:xmpp:jane@example.org",
		"URL:",
		"URL;TYPE=blog:https://jane.example.com",
		"NOTE:",
	)
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)

	nicks := opsOfKind(ops, KindNickname)
	be.Equal(t, len(nicks), 2)
	be.Equal(t, mustString(t, nicks[1].Values, NicknameName), "Janie")

	phones := opsOfKind(ops, KindPhone)
	be.Equal(t, len(phones), 1)
	be.Equal(t, mustString(t, phones[0].Values, PhoneNumber), "tel:+1-555-0199")
	be.Equal(t, mustInt(t, phones[0].Values, PhoneType), mappings.PhoneTypeOther)

	be.Equal(t, len(opsOfKind(ops, KindEmail)), 0)
	be.Equal(t, len(opsOfKind(ops, KindNote)), 0)

	addrs := opsOfKind(ops, KindPostal)
	be.Equal(t, len(addrs), 2)
	be.Equal(t, mustInt(t, addrs[0].Values, PostalType), mappings.AddressTypeOther)
	be.Equal(t, mustString(t, addrs[1].Values, PostalStreet), "1 Main St")
	be.Equal(t, mustString(t, addrs[1].Values, PostalCity), "Springfield")
	be.Equal(t, mustInt(t, addrs[1].Values, PostalType), mappings.AddressTypeWork)

	ims := opsOfKind(ops, KindIm)
	be.Equal(t, len(ims), 2)
	be.Equal(t, mustString(t, ims[0].Values, ImData), "jane.aim")
	be.Equal(t, mustInt(t, ims[0].Values, ImProtocol), mappings.ProtocolAIM)
	be.Equal(t, mustString(t, ims[1].Values, ImData), "jane@example.org")
	be.Equal(t, mustInt(t, ims[1].Values, ImProtocol), mappings.ProtocolJabber)

	sites := opsOfKind(ops, KindWebsite)
	be.Equal(t, len(sites), 1)
	be.Equal(t, mustInt(t, sites[0].Values, WebsiteType), mappings.WebsiteTypeBlog)
}

func TestCustomFields(t *testing.T) {
	doc := decodeCard(t,
		"X-ANDROID-CUSTOM:vnd.android.cursor.item/nickname;Buddy;1;;;;;;;;;;;;;",
		"X-ANDROID-CUSTOM:vnd.android.cursor.item/contact_event;2010-06-01;1;;;;;;;;;;;;;",
		"X-ANDROID-CUSTOM:vnd.android.cursor.item/relation;Bob;x;;;;;;;;;;;;;",
		"X-ANDROID-CUSTOM:vnd.android.cursor.item/unknown;value",
		"X-ANDROID-CUSTOM:vnd.android.cursor.item/relation",
	)
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)

	nicks := opsOfKind(ops, KindNickname)
	be.Equal(t, len(nicks), 1)
	be.Equal(t, mustString(t, nicks[0].Values, NicknameName), "Buddy")

	events := opsOfKind(ops, KindEvent)
	be.Equal(t, len(events), 1)
	be.Equal(t, mustInt(t, events[0].Values, EventType), mappings.EventTypeAnniversary)

	relations := opsOfKind(ops, KindRelation)
	be.Equal(t, len(relations), 1)
	be.Equal(t, mustString(t, relations[0].Values, RelationName), "Bob")
	_, ok := relations[0].Values.Get(RelationType)
	be.Equal(t, ok, false)
}

func TestRemotePhotoFetchedBeforeEmit(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string][]byte{
		"https://example.com/a.png": {0xff, 0xd8, 0x01},
		"https://example.com/b.jpg": {0xff, 0xd8, 0x02},
	}}
	doc := decodeCard(t,
		"PHOTO;VALUE=uri:https://example.com/a.png",
		"PHOTO;VALUE=uri:https://example.com/b.jpg",
		"PHOTO;ENCODING=b;TYPE=JPEG:AQID",
	)
	c := newTestConverter(WithAssetFetcher(fetcher), WithPhotoFetchLimit(1), WithPhotoFetchTimeout(time.Second))
	ops, err := c.BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)

	photos := opsOfKind(ops, KindPhoto)
	be.Equal(t, len(photos), 3)
	got := map[string]bool{}
	for _, op := range photos {
		data, ok := op.Values.Bytes(PhotoData)
		be.True(t, ok)
		got[string(data)] = true
	}
	be.True(t, got[string([]byte{0xff, 0xd8, 0x01})])
	be.True(t, got[string([]byte{0xff, 0xd8, 0x02})])
	be.True(t, got[string([]byte{1, 2, 3})])
	be.Equal(t, len(fetcher.called), 2)
}

func TestPhotoFetchFailureSwallowed(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	doc := decodeCard(t, "N:Doe;Jane;;;", "PHOTO;VALUE=uri:https://example.com/a.png")
	ops, err := newTestConverter(WithAssetFetcher(fetcher)).BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)
	be.Equal(t, len(opsOfKind(ops, KindPhoto)), 0)
	be.Equal(t, len(ops), 2)
}

func TestRemotePhotoWithoutFetcher(t *testing.T) {
	doc := decodeCard(t, "PHOTO;VALUE=uri:https://example.com/a.png")
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)
	be.Equal(t, len(ops), 1)
}

func TestInsertContact(t *testing.T) {
	exec := &fakeExecutor{}
	doc := decodeCard(t, "FN:Jane Doe", "TEL:555")
	res, err := newTestConverter().InsertContact(context.Background(), exec, Account{Name: "a", Type: "b"}, doc)
	be.Err(t, err, nil)
	be.Equal(t, res.RawContactID, int64(100))
	be.Equal(t, len(res.Operations), 3)
	be.Equal(t, len(res.Results), 3)
	be.Equal(t, len(exec.calls), 1)
}

func TestUpdateContact(t *testing.T) {
	exec := &fakeExecutor{}
	doc := decodeCard(t, "FN:Jane Doe", "TEL:555")
	res, err := newTestConverter().UpdateContact(context.Background(), exec, doc, 9)
	be.Err(t, err, nil)
	be.Equal(t, res.RawContactID, int64(9))
	be.Equal(t, res.RowsAffected, int64(2))
	for _, op := range exec.calls[0] {
		be.True(t, op.Table != TableRawContacts)
	}
}

func TestStoreRejectionIsTyped(t *testing.T) {
	storeErr := errors.New("constraint failed")
	exec := &fakeExecutor{err: storeErr}
	doc := decodeCard(t, "FN:Jane Doe")

	_, err := newTestConverter().InsertContact(context.Background(), exec, Account{}, doc)
	var opErr *Error
	be.True(t, errors.As(err, &opErr))
	be.Equal(t, opErr.Code, ErrorCodeStoreTransaction)
	be.True(t, errors.Is(err, storeErr))

	_, err = newTestConverter().UpdateContact(context.Background(), exec, doc, 1)
	be.True(t, errors.As(err, &opErr))
	be.Equal(t, opErr.Code, ErrorCodeStoreTransaction)
}

func TestFailingExtractorIsIsolated(t *testing.T) {
	saved := extractors
	t.Cleanup(func() { extractors = saved })
	extractors = append([]extractor{{
		name: "broken",
		fn: func(*Converter, context.Context, *card.Document) ([]*Record, error) {
			return []*Record{NewRecord(KindNote)}, errors.New("broken")
		},
	}}, saved...)

	doc := decodeCard(t, "FN:Jane Doe")
	ops, err := newTestConverter().BuildInsert(context.Background(), Account{}, doc)
	be.Err(t, err, nil)
	be.Equal(t, len(ops), 2)
	be.Equal(t, len(opsOfKind(ops, KindName)), 1)
}
