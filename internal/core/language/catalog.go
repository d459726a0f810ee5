// Package language holds the static catalog of language codes the
// translation service accepts, mapped to their display names.
package language

import "sort"

// Language is one catalog entry
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// catalog is read-only after package initialization.
var catalog = map[string]string{
	"am-ET":  "Amharic",
	"ar-SA":  "Arabic",
	"be-BY":  "Belarusian",
	"bem-ZM": "Bemba",
	"bi-VU":  "Bislama",
	"bjs-BB": "Bajan",
	"bn-IN":  "Bengali",
	"bo-CN":  "Tibetan",
	"br-FR":  "Breton",
	"bs-BA":  "Bosnian",
	"ca-ES":  "Catalan",
	"cop-EG": "Coptic",
	"cs-CZ":  "Czech",
	"cy-GB":  "Welsh",
	"da-DK":  "Danish",
	"dz-BT":  "Dzongkha",
	"de-DE":  "German",
	"dv-MV":  "Maldivian",
	"el-GR":  "Greek",
	"en-GB":  "English",
	"es-ES":  "Spanish",
	"et-EE":  "Estonian",
	"eu-ES":  "Basque",
	"fa-IR":  "Persian",
	"fi-FI":  "Finnish",
	"fn-FNG": "Fanagalo",
	"fo-FO":  "Faroese",
	"fr-FR":  "French",
	"gl-ES":  "Galician",
	"gu-IN":  "Gujarati",
	"ha-NE":  "Hausa",
	"he-IL":  "Hebrew",
	"hi-IN":  "Hindi",
	"hr-HR":  "Croatian",
	"hu-HU":  "Hungarian",
	"id-ID":  "Indonesian",
	"is-IS":  "Icelandic",
	"it-IT":  "Italian",
	"ja-JP":  "Japanese",
	"kk-KZ":  "Kazakh",
	"km-KM":  "Khmer",
	"kn-IN":  "Kannada",
	"ko-KR":  "Korean",
	"ku-TR":  "Kurdish",
	"ky-KG":  "Kyrgyz",
	"la-VA":  "Latin",
	"lo-LA":  "Lao",
	"lv-LV":  "Latvian",
	"men-SL": "Mende",
	"mg-MG":  "Malagasy",
	"mi-NZ":  "Maori",
	"ms-MY":  "Malay",
	"mt-MT":  "Maltese",
	"my-MM":  "Burmese",
	"ne-NP":  "Nepali",
	"niu-NU": "Niuean",
	"nl-NL":  "Dutch",
	"no-NO":  "Norwegian",
	"ny-MW":  "Nyanja",
	"ur-PK":  "Pakistani",
	"pau-PW": "Palauan",
	"pa-IN":  "Punjabi",
	"ps-PK":  "Pashto",
	"pis-SB": "Pijin",
	"pl-PL":  "Polish",
	"pt-PT":  "Portuguese",
	"rn-BI":  "Kirundi",
	"ro-RO":  "Romanian",
	"ru-RU":  "Russian",
	"sg-CF":  "Sango",
	"si-LK":  "Sinhala",
	"sk-SK":  "Slovak",
	"sm-WS":  "Samoan",
	"sn-ZW":  "Shona",
	"so-SO":  "Somali",
	"sq-AL":  "Albanian",
	"sr-RS":  "Serbian",
	"sv-SE":  "Swedish",
	"sw-SZ":  "Swahili",
	"ta-LK":  "Tamil",
	"te-IN":  "Telugu",
	"tet-TL": "Tetum",
	"tg-TJ":  "Tajik",
	"th-TH":  "Thai",
	"ti-TI":  "Tigrinya",
	"tk-TM":  "Turkmen",
	"tl-PH":  "Tagalog",
	"tn-BW":  "Tswana",
	"to-TO":  "Tongan",
	"tr-TR":  "Turkish",
	"uk-UA":  "Ukrainian",
	"uz-UZ":  "Uzbek",
	"vi-VN":  "Vietnamese",
	"wo-SN":  "Wolof",
	"xh-ZA":  "Xhosa",
	"yi-YD":  "Yiddish",
	"zu-ZA":  "Zulu",
}

// sorted is built once from catalog, ordered by display name then code.
var sorted = buildSorted()

func buildSorted() []Language {
	out := make([]Language, 0, len(catalog))
	for code, name := range catalog {
		out = append(out, Language{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Code < out[j].Code
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Name returns the display name for code
func Name(code string) (string, bool) {
	name, ok := catalog[code]
	return name, ok
}

// IsSupported reports whether code is a catalog key
func IsSupported(code string) bool {
	_, ok := catalog[code]
	return ok
}

// All returns every catalog entry sorted by display name
func All() []Language {
	out := make([]Language, len(sorted))
	copy(out, sorted)
	return out
}

// Count returns the catalog size
func Count() int {
	return len(catalog)
}
