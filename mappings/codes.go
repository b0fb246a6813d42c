package mappings

// Phone type codes.
const (
	PhoneTypeCustom      = 0
	PhoneTypeHome        = 1
	PhoneTypeMobile      = 2
	PhoneTypeWork        = 3
	PhoneTypeFaxWork     = 4
	PhoneTypeFaxHome     = 5
	PhoneTypePager       = 6
	PhoneTypeOther       = 7
	PhoneTypeCallback    = 8
	PhoneTypeCar         = 9
	PhoneTypeCompanyMain = 10
	PhoneTypeISDN        = 11
	PhoneTypeMain        = 12
	PhoneTypeOtherFax    = 13
	PhoneTypeRadio       = 14
	PhoneTypeTelex       = 15
	PhoneTypeTTYTDD      = 16
	PhoneTypeWorkMobile  = 17
	PhoneTypeWorkPager   = 18
	PhoneTypeAssistant   = 19
	PhoneTypeMMS         = 20
)

// Email type codes.
const (
	EmailTypeCustom = 0
	EmailTypeHome   = 1
	EmailTypeWork   = 2
	EmailTypeOther  = 3
	EmailTypeMobile = 4
)

// Postal address type codes.
const (
	AddressTypeCustom = 0
	AddressTypeHome   = 1
	AddressTypeWork   = 2
	AddressTypeOther  = 3
)

// Instant messaging protocol codes.
const (
	ProtocolCustom     = -1
	ProtocolAIM        = 0
	ProtocolMSN        = 1
	ProtocolYahoo      = 2
	ProtocolSkype      = 3
	ProtocolQQ         = 4
	ProtocolGoogleTalk = 5
	ProtocolICQ        = 6
	ProtocolJabber     = 7
	ProtocolNetMeeting = 8
)

// Website type codes.
const (
	WebsiteTypeCustom   = 0
	WebsiteTypeHomepage = 1
	WebsiteTypeBlog     = 2
	WebsiteTypeProfile  = 3
	WebsiteTypeHome     = 4
	WebsiteTypeWork     = 5
	WebsiteTypeFTP      = 6
	WebsiteTypeOther    = 7
)

// Event type codes.
const (
	EventTypeCustom      = 0
	EventTypeAnniversary = 1
	EventTypeOther       = 2
	EventTypeBirthday    = 3
)

// Relation type codes.
const (
	RelationTypeCustom          = 0
	RelationTypeAssistant       = 1
	RelationTypeBrother         = 2
	RelationTypeChild           = 3
	RelationTypeDomesticPartner = 4
	RelationTypeFather          = 5
	RelationTypeFriend          = 6
	RelationTypeManager         = 7
	RelationTypeMother          = 8
	RelationTypeParent          = 9
	RelationTypePartner         = 10
	RelationTypeReferredBy      = 11
	RelationTypeRelative        = 12
	RelationTypeSister          = 13
	RelationTypeSpouse          = 14
)
