package tts

import (
	"context"
	"sort"
	"strings"

	"github.com/dgnsrekt/ttsplayer/internal/tts/engines"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// VoiceName is the display name of every gTTS voice.
const VoiceName = "gTTS"

// compatMap maps bare provider codes to a language variant. Codes missing
// here have no voice.
var compatMap = map[string]string{
	"af": "af_ZA",
	"ar": "ar_SA",
	"bg": "bg_BG",
	"ca": "ca_ES",
	"cs": "cs_CZ",
	"da": "da_DK",
	"de": "de_DE",
	"el": "el_GR",
	"en": "en_US",
	"eo": "eo_EO",
	"es": "es_ES",
	"et": "et_EE",
	"eu": "eu_ES",
	"fa": "fa_IR",
	"fi": "fi_FI",
	"fr": "fr_FR",
	"gl": "gl_ES",
	"he": "he_IL",
	"hr": "hr_HR",
	"hu": "hu_HU",
	"hy": "hy_AM",
	"it": "it_IT",
	"ja": "ja_JP",
	"ko": "ko_KR",
	"mn": "mn_MN",
	"ms": "ms_MY",
	"nl": "nl_NL",
	"nb": "nb_NO",
	"pl": "pl_PL",
	"pt": "pt_BR",
	"ro": "ro_RO",
	"ru": "ru_RU",
	"sk": "sk_SK",
	"sl": "sl_SI",
	"sr": "sr_SP",
	"sv": "sv_SE",
	"th": "th_TH",
	"tr": "tr_TR",
	"uk": "uk_UA",
	"vi": "vi_VN",
}

// VoiceVariant returns the language variant for a provider code, or false
// when the code has no voice. en_US is served by the en_GB voice.
func VoiceVariant(code string) (string, bool) {
	var variant string
	if strings.Contains(code, "-") {
		variant = ttypes.NormalizeVariant(code)
	} else {
		v, ok := compatMap[strings.ToLower(code)]
		if !ok {
			return "", false
		}
		variant = v
	}
	if variant == "en_US" {
		variant = "en_GB"
	}
	return variant, true
}

// VoicesFromLanguages builds one voice per supported provider language,
// sorted by variant then provider code.
func VoicesFromLanguages(langs map[string]string) []ttypes.Voice {
	voices := make([]ttypes.Voice, 0, len(langs))
	for code, name := range langs {
		variant, ok := VoiceVariant(code)
		if !ok {
			continue
		}
		voices = append(voices, ttypes.Voice{
			Name:         VoiceName,
			Lang:         variant,
			ProviderCode: code,
			Description:  name,
		})
	}
	sort.Slice(voices, func(i, j int) bool {
		if voices[i].Lang != voices[j].Lang {
			return voices[i].Lang < voices[j].Lang
		}
		return voices[i].ProviderCode < voices[j].ProviderCode
	})
	return voices
}

// Voices queries the catalog. Nothing is cached between calls.
func Voices(ctx context.Context, catalog engines.Catalog) ([]ttypes.Voice, error) {
	langs, err := catalog.Languages(ctx)
	if err != nil {
		return nil, err
	}
	return VoicesFromLanguages(langs), nil
}

// MatchVoice picks the voice for variant: an exact variant match, then a
// voice for the same short language. With no match it returns a voice whose
// provider code is the short language.
func MatchVoice(voices []ttypes.Voice, variant string) ttypes.Voice {
	want := ttypes.NormalizeVariant(strings.TrimSpace(variant))
	if want == "en_US" {
		want = "en_GB"
	}
	short := engines.ShortLang(want)

	for _, v := range voices {
		if v.Lang == want {
			return v
		}
	}
	for _, v := range voices {
		if engines.ShortLang(v.Lang) == short {
			return v
		}
	}
	return ttypes.Voice{Name: VoiceName, Lang: want, ProviderCode: short}
}
