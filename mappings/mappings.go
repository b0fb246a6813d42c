// Package mappings classifies free-form vCard type labels into the enumerated
// codes of the contact store. Every lookup has a fallback code; none fail.
package mappings

import "strings"

// typeRule maps a set of type labels, all of which must be present, to a code.
type typeRule struct {
	types []string
	code  int
}

// labelRule maps a label substring to a code.
type labelRule struct {
	contains string
	code     int
}

// IMProperty maps a vendor extension property name to a protocol code.
type IMProperty struct {
	Name     string
	Protocol int
}

var phoneRules = []typeRule{
	{types: []string{"fax", "home"}, code: PhoneTypeFaxHome},
	{types: []string{"fax", "work"}, code: PhoneTypeFaxWork},
	{types: []string{"fax"}, code: PhoneTypeOtherFax},
	{types: []string{"pager", "work"}, code: PhoneTypeWorkPager},
	{types: []string{"pager"}, code: PhoneTypePager},
	{types: []string{"cell", "work"}, code: PhoneTypeWorkMobile},
	{types: []string{"cell"}, code: PhoneTypeMobile},
	{types: []string{"mobile"}, code: PhoneTypeMobile},
	{types: []string{"iphone"}, code: PhoneTypeMobile},
	{types: []string{"home"}, code: PhoneTypeHome},
	{types: []string{"work"}, code: PhoneTypeWork},
	{types: []string{"car"}, code: PhoneTypeCar},
	{types: []string{"isdn"}, code: PhoneTypeISDN},
	{types: []string{"main"}, code: PhoneTypeMain},
	{types: []string{"callback"}, code: PhoneTypeCallback},
	{types: []string{"company"}, code: PhoneTypeCompanyMain},
	{types: []string{"radio"}, code: PhoneTypeRadio},
	{types: []string{"telex"}, code: PhoneTypeTelex},
	{types: []string{"textphone"}, code: PhoneTypeTTYTDD},
	{types: []string{"tty"}, code: PhoneTypeTTYTDD},
	{types: []string{"assistant"}, code: PhoneTypeAssistant},
	{types: []string{"x-assistant"}, code: PhoneTypeAssistant},
	{types: []string{"mms"}, code: PhoneTypeMMS},
	{types: []string{"other"}, code: PhoneTypeOther},
}

var emailRules = []typeRule{
	{types: []string{"home"}, code: EmailTypeHome},
	{types: []string{"work"}, code: EmailTypeWork},
	{types: []string{"cell"}, code: EmailTypeMobile},
	{types: []string{"mobile"}, code: EmailTypeMobile},
	{types: []string{"other"}, code: EmailTypeOther},
}

var addressRules = []typeRule{
	{types: []string{"home"}, code: AddressTypeHome},
	{types: []string{"work"}, code: AddressTypeWork},
	{types: []string{"other"}, code: AddressTypeOther},
}

var websiteTypes = map[string]int{
	"home":     WebsiteTypeHome,
	"work":     WebsiteTypeWork,
	"homepage": WebsiteTypeHomepage,
	"profile":  WebsiteTypeProfile,
	"blog":     WebsiteTypeBlog,
	"ftp":      WebsiteTypeFTP,
	"other":    WebsiteTypeOther,
}

var imPropertyNames = []IMProperty{
	{Name: "X-AIM", Protocol: ProtocolAIM},
	{Name: "X-ICQ", Protocol: ProtocolICQ},
	{Name: "X-QQ", Protocol: ProtocolQQ},
	{Name: "X-GOOGLE-TALK", Protocol: ProtocolGoogleTalk},
	{Name: "X-JABBER", Protocol: ProtocolJabber},
	{Name: "X-MSN", Protocol: ProtocolMSN},
	{Name: "X-MS-IMADDRESS", Protocol: ProtocolMSN},
	{Name: "X-YAHOO", Protocol: ProtocolYahoo},
	{Name: "X-SKYPE", Protocol: ProtocolSkype},
	{Name: "X-SKYPE-USERNAME", Protocol: ProtocolSkype},
	{Name: "X-TWITTER", Protocol: ProtocolCustom},
}

var imSchemes = map[string]int{
	"aim":        ProtocolAIM,
	"msn":        ProtocolMSN,
	"msnim":      ProtocolMSN,
	"ymsgr":      ProtocolYahoo,
	"yahoo":      ProtocolYahoo,
	"skype":      ProtocolSkype,
	"callto":     ProtocolSkype,
	"qq":         ProtocolQQ,
	"gtalk":      ProtocolGoogleTalk,
	"googletalk": ProtocolGoogleTalk,
	"icq":        ProtocolICQ,
	"xmpp":       ProtocolJabber,
	"jabber":     ProtocolJabber,
	"netmeeting": ProtocolNetMeeting,
}

// Apple labels are wrapped as "_$!<Anniversary>!$_", so labels match on
// substrings of their lower-cased form.
var dateLabels = []labelRule{
	{contains: "anniversary", code: EventTypeAnniversary},
	{contains: "birthday", code: EventTypeBirthday},
	{contains: "other", code: EventTypeOther},
}

var relationLabels = []labelRule{
	{contains: "domestic partner", code: RelationTypeDomesticPartner},
	{contains: "domestic_partner", code: RelationTypeDomesticPartner},
	{contains: "assistant", code: RelationTypeAssistant},
	{contains: "brother", code: RelationTypeBrother},
	{contains: "sister", code: RelationTypeSister},
	{contains: "child", code: RelationTypeChild},
	{contains: "father", code: RelationTypeFather},
	{contains: "mother", code: RelationTypeMother},
	{contains: "parent", code: RelationTypeParent},
	{contains: "friend", code: RelationTypeFriend},
	{contains: "manager", code: RelationTypeManager},
	{contains: "partner", code: RelationTypePartner},
	{contains: "referred", code: RelationTypeReferredBy},
	{contains: "relative", code: RelationTypeRelative},
	{contains: "spouse", code: RelationTypeSpouse},
	{contains: "husband", code: RelationTypeSpouse},
	{contains: "wife", code: RelationTypeSpouse},
}

// PhoneType classifies TEL type parameters. Unknown types map to
// PhoneTypeOther.
func PhoneType(types []string) int {
	return matchTypes(phoneRules, types, PhoneTypeOther)
}

// EmailType classifies EMAIL type parameters. Unknown types map to
// EmailTypeOther.
func EmailType(types []string) int {
	return matchTypes(emailRules, types, EmailTypeOther)
}

// AddressType classifies ADR type parameters. Unknown types map to
// AddressTypeOther.
func AddressType(types []string) int {
	return matchTypes(addressRules, types, AddressTypeOther)
}

// WebsiteType classifies a URL type parameter. Unknown types map to
// WebsiteTypeOther.
func WebsiteType(typ string) int {
	if code, ok := websiteTypes[normalize(typ)]; ok {
		return code
	}
	return WebsiteTypeOther
}

// IMPropertyNames returns the vendor IM extension table in lookup order.
func IMPropertyNames() []IMProperty {
	return append([]IMProperty(nil), imPropertyNames...)
}

// IMProtocolFromScheme maps an IMPP URI scheme to a protocol code. Unknown
// schemes map to ProtocolCustom.
func IMProtocolFromScheme(scheme string) int {
	if code, ok := imSchemes[normalize(scheme)]; ok {
		return code
	}
	return ProtocolCustom
}

// DateType maps a free-text date label to an event type. Unknown labels map
// to EventTypeOther.
func DateType(label string) int {
	return matchLabel(dateLabels, label, EventTypeOther)
}

// RelationType maps a free-text relation label to a relation type. Unknown
// labels map to RelationTypeCustom.
func RelationType(label string) int {
	return matchLabel(relationLabels, label, RelationTypeCustom)
}

func matchTypes(rules []typeRule, types []string, fallback int) int {
	if len(types) == 0 {
		return fallback
	}
	present := make(map[string]struct{}, len(types))
	for _, t := range types {
		present[normalize(t)] = struct{}{}
	}
	for _, rule := range rules {
		if hasAll(present, rule.types) {
			return rule.code
		}
	}
	return fallback
}

func hasAll(present map[string]struct{}, types []string) bool {
	for _, t := range types {
		if _, ok := present[t]; !ok {
			return false
		}
	}
	return true
}

func matchLabel(rules []labelRule, label string, fallback int) int {
	label = normalize(label)
	if label == "" {
		return fallback
	}
	for _, rule := range rules {
		if strings.Contains(label, rule.contains) {
			return rule.code
		}
	}
	return fallback
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
