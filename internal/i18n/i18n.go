// Package i18n holds the user-facing messages of the API in English and Hindi.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. Error keys double as the machine-readable error codes of the API.
const (
	KeyDailyLimitReached = "daily_limit_reached"
	KeyPremiumRequired   = "premium_required"
	KeyNoSuitableContent = "no_suitable_content"
	KeyUnavailable       = "unavailable"
	KeyUnauthorized      = "unauthorized"
	KeyInvalidSubmission = "invalid_submission"
	KeyInvalidRequest    = "invalid_request"
	KeyNotFound          = "not_found"
	KeyUnsupportedPlan   = "unsupported_plan"
	KeyUnknownResource   = "unknown_resource"
	KeyRateLimited       = "rate_limited"
	KeyInternal          = "internal_error"
	KeyUpgraded          = "premium_upgraded"
	KeyCancelled         = "premium_cancelled"
	KeyNotPremium        = "premium_not_active"
	KeyUnlimited         = "premium_unlimited"
)

var (
	English = language.English
	Hindi   = language.Hindi

	supported = []language.Tag{English, Hindi}
	matcher   = language.NewMatcher(supported)
	cat       = catalog.NewBuilder(catalog.Fallback(English))
)

var messages = map[string][2]string{
	KeyDailyLimitReached: {
		"Daily %s limit reached. Upgrade to premium for unlimited access.",
		"आज की %s सीमा पूरी हो गई है। असीमित उपयोग के लिए प्रीमियम लें।",
	},
	KeyPremiumRequired: {
		"This content requires a premium subscription.",
		"इस सामग्री के लिए प्रीमियम सदस्यता आवश्यक है।",
	},
	KeyNoSuitableContent: {
		"No quiz matches the requested subject and class.",
		"चुने गए विषय और कक्षा के लिए कोई क्विज़ उपलब्ध नहीं है।",
	},
	KeyUnavailable: {
		"The service is temporarily unavailable. Please try again.",
		"सेवा अस्थायी रूप से उपलब्ध नहीं है। कृपया पुनः प्रयास करें।",
	},
	KeyUnauthorized: {
		"Authentication required.",
		"प्रमाणीकरण आवश्यक है।",
	},
	KeyInvalidSubmission: {
		"Answers must be submitted as a list.",
		"उत्तर सूची के रूप में भेजे जाने चाहिए।",
	},
	KeyInvalidRequest: {
		"The request is invalid.",
		"अनुरोध अमान्य है।",
	},
	KeyNotFound: {
		"Not found.",
		"नहीं मिला।",
	},
	KeyUnsupportedPlan: {
		"Plan must be monthly or annual.",
		"योजना मासिक या वार्षिक होनी चाहिए।",
	},
	KeyUnknownResource: {
		"Unknown resource type %s.",
		"अज्ञात संसाधन प्रकार %s।",
	},
	KeyRateLimited: {
		"Too many requests. Slow down.",
		"बहुत अधिक अनुरोध। कृपया धीरे करें।",
	},
	KeyInternal: {
		"Something went wrong.",
		"कुछ गलत हो गया।",
	},
	KeyUpgraded: {
		"Premium %s plan active until %s.",
		"प्रीमियम %s योजना %s तक सक्रिय है।",
	},
	KeyCancelled: {
		"Premium stays active until %s and will not renew.",
		"प्रीमियम %s तक सक्रिय रहेगा और नवीनीकृत नहीं होगा।",
	},
	KeyNotPremium: {
		"No active premium subscription.",
		"कोई सक्रिय प्रीमियम सदस्यता नहीं है।",
	},
	KeyUnlimited: {
		"Premium users have unlimited access.",
		"प्रीमियम उपयोगकर्ताओं के लिए असीमित उपयोग।",
	},
}

func init() {
	for key, texts := range messages {
		if err := cat.SetString(English, key, texts[0]); err != nil {
			panic(err)
		}
		if err := cat.SetString(Hindi, key, texts[1]); err != nil {
			panic(err)
		}
	}
}

// Match picks the supported language closest to the given preferences. Each
// preference may be a single tag ("hi-IN") or a full Accept-Language value.
// Unparseable or unmatched preferences fall through to English.
func Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return supported[idx]
}

// Code returns the short code ("en", "hi") of a supported tag.
func Code(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// Printer returns a printer bound to the message catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// T renders key in the language identified by code.
func T(code, key string, args ...any) string {
	return Printer(Match(code)).Sprintf(key, args...)
}
