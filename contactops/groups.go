package contactops

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/spachava753/cardsync/card"
	"github.com/spachava753/cardsync/mappings"
)

// Extension properties that Apple clients correlate through a group tag,
// for example item1.X-ABDATE together with item1.X-ABLABEL.
const (
	propertyABDate         = "X-ABDATE"
	propertyABRelatedNames = "X-ABRELATEDNAMES"
	propertyABLabel        = "X-ABLABEL"

	// labelNickname marks a related name that is a plain nickname.
	labelNickname = "Nickname"
)

type groupRole int

const (
	roleNone groupRole = iota
	roleDate
	roleRelatedName
)

// propertyGroup is the set of extension properties sharing one group tag.
type propertyGroup struct {
	tag     string
	members []card.RawProperty
}

// groupProperties buckets grouped extension properties by tag. Ungrouped
// properties are left out. Groups are ordered by tag, comparing a trailing
// number numerically so item2 sorts before item10; members keep their
// input order.
func groupProperties(props []card.RawProperty) []propertyGroup {
	byTag := make(map[string]*propertyGroup)
	tags := make([]string, 0, len(props))
	for _, prop := range props {
		if prop.Group == "" {
			continue
		}
		g, ok := byTag[prop.Group]
		if !ok {
			g = &propertyGroup{tag: prop.Group}
			byTag[prop.Group] = g
			tags = append(tags, prop.Group)
		}
		g.members = append(g.members, prop)
	}
	slices.SortStableFunc(tags, compareTags)

	out := make([]propertyGroup, 0, len(tags))
	for _, tag := range tags {
		out = append(out, *byTag[tag])
	}
	return out
}

func compareTags(a, b string) int {
	prefixA, numA, okA := splitTrailingNumber(a)
	prefixB, numB, okB := splitTrailingNumber(b)
	if okA && okB && strings.EqualFold(prefixA, prefixB) {
		return cmp.Compare(numA, numB)
	}
	return strings.Compare(a, b)
}

func splitTrailingNumber(tag string) (string, int, bool) {
	i := len(tag)
	for i > 0 && tag[i-1] >= '0' && tag[i-1] <= '9' {
		i--
	}
	if i == len(tag) {
		return tag, 0, false
	}
	n, err := strconv.Atoi(tag[i:])
	if err != nil {
		return tag, 0, false
	}
	return tag[:i], n, true
}

// reconstructGroup rebuilds the compound attribute a group encodes. A date
// member yields an event typed by the label, a related name yields a
// nickname or relation depending on the label. When both roles occur, the
// later member wins. It returns nil when the group encodes nothing.
func reconstructGroup(g propertyGroup) *Record {
	role := roleNone
	var value, label string
	hasLabel := false
	for _, member := range g.members {
		switch {
		case strings.EqualFold(member.Name, propertyABDate):
			role, value = roleDate, member.Value
		case strings.EqualFold(member.Name, propertyABRelatedNames):
			role, value = roleRelatedName, member.Value
		case strings.EqualFold(member.Name, propertyABLabel):
			label, hasLabel = member.Value, true
		}
	}

	switch role {
	case roleDate:
		rec := NewRecord(KindEvent)
		rec.PutString(EventStartDate, value)
		rec.PutInt(EventType, mappings.DateType(label))
		return rec
	case roleRelatedName:
		if !hasLabel {
			return nil
		}
		if label == labelNickname {
			rec := NewRecord(KindNickname)
			rec.PutString(NicknameName, value)
			return rec
		}
		rec := NewRecord(KindRelation)
		rec.PutString(RelationName, value)
		rec.PutInt(RelationType, mappings.RelationType(label))
		return rec
	}
	return nil
}
