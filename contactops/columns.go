package contactops

// Kind is the MIME-style tag identifying what a data row holds.
type Kind string

const (
	KindName         Kind = "vnd.android.cursor.item/name"
	KindNickname     Kind = "vnd.android.cursor.item/nickname"
	KindPhone        Kind = "vnd.android.cursor.item/phone_v2"
	KindEmail        Kind = "vnd.android.cursor.item/email_v2"
	KindPostal       Kind = "vnd.android.cursor.item/postal-address_v2"
	KindIm           Kind = "vnd.android.cursor.item/im"
	KindEvent        Kind = "vnd.android.cursor.item/contact_event"
	KindRelation     Kind = "vnd.android.cursor.item/relation"
	KindWebsite      Kind = "vnd.android.cursor.item/website"
	KindNote         Kind = "vnd.android.cursor.item/note"
	KindPhoto        Kind = "vnd.android.cursor.item/photo"
	KindOrganization Kind = "vnd.android.cursor.item/organization"
)

// Shared columns.
const (
	ColumnMimeType     = "mimetype"
	ColumnRawContactID = "raw_contact_id"
	ColumnAccountName  = "account_name"
	ColumnAccountType  = "account_type"
)

// Name columns.
const (
	NameDisplayName    = "data1"
	NameGivenName      = "data2"
	NameFamilyName     = "data3"
	NamePrefix         = "data4"
	NameMiddleName     = "data5"
	NameSuffix         = "data6"
	NamePhoneticGiven  = "data7"
	NamePhoneticMiddle = "data8"
	NamePhoneticFamily = "data9"
)

const (
	NicknameName = "data1"

	PhoneNumber = "data1"
	PhoneType   = "data2"

	EmailAddress = "data1"
	EmailType    = "data2"

	ImData     = "data1"
	ImProtocol = "data5"

	EventStartDate = "data1"
	EventType      = "data2"

	RelationName = "data1"
	RelationType = "data2"

	WebsiteURL  = "data1"
	WebsiteType = "data2"

	NoteText = "data1"

	PhotoData = "data15"
)

// Postal address columns.
const (
	PostalType     = "data2"
	PostalLabel    = "data3"
	PostalStreet   = "data4"
	PostalPoBox    = "data5"
	PostalCity     = "data7"
	PostalRegion   = "data8"
	PostalPostcode = "data9"
	PostalCountry  = "data10"
)

// Organization columns.
const (
	OrganizationCompany        = "data1"
	OrganizationTitle          = "data4"
	OrganizationDepartment     = "data5"
	OrganizationOfficeLocation = "data9"
)
