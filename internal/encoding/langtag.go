package encoding

// LanguageTagBits is the width reserved at the top of a language-tagged
// literal id for an enumerated language tag. 0 means "not enumerated".
const LanguageTagBits = 4

// LanguageTagShift is the bit offset of the enumerated tag inside the
// 42-bit literal id. Backend ids of language-tagged literals must stay
// below 1<<LanguageTagShift.
const LanguageTagShift = PayloadBits - LanguageTagBits

// commonLanguageTags are the tags that inline into a literal id.
// Position i is stored as i+1.
var commonLanguageTags = [...]string{
	"en", "de", "fr", "es", "it", "pt", "nl", "ru",
	"ja", "zh", "ar", "pl", "sv", "ko", "tr",
}

// CommonLanguageTags returns the enumerated tags in index order.
func CommonLanguageTags() []string {
	out := make([]string, len(commonLanguageTags))
	copy(out, commonLanguageTags[:])
	return out
}

// PackLanguageTag returns the enumerated index of a normalized (lowercase)
// tag, or false if the tag is not one of the common tags.
func PackLanguageTag(tag string) (uint64, bool) {
	for i, t := range commonLanguageTags {
		if t == tag {
			return uint64(i + 1), true // #nosec G115 - small index
		}
	}
	return 0, false
}

// UnpackLanguageTag reverses PackLanguageTag. It returns false for 0 or an
// unassigned index.
func UnpackLanguageTag(ix uint64) (string, bool) {
	if ix == 0 || ix > uint64(len(commonLanguageTags)) {
		return "", false
	}
	return commonLanguageTags[ix-1], true
}

// WithLanguageTag places an enumerated tag index above a backend id.
func WithLanguageTag(id, tagIndex uint64) uint64 {
	return id&(uint64(1)<<LanguageTagShift-1) | tagIndex<<LanguageTagShift
}

// SplitLanguageTag separates a literal id into backend id and tag index.
func SplitLanguageTag(literalID uint64) (id, tagIndex uint64) {
	return literalID & (uint64(1)<<LanguageTagShift - 1), literalID >> LanguageTagShift & mask(LanguageTagBits)
}
