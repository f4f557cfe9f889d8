package languages

// Neutral is the colour of languages without an entry in the palette.
const Neutral = "#8b949e"

var palette = map[string]string{
	"JavaScript": "#f7df1e",
	"TypeScript": "#3178c6",
	"Python":     "#3776ab",
	"Java":       "#e11d21",
	"Go":         "#00ADD8",
	"Rust":       "#dea584",
	"Ruby":       "#cc342d",
	"PHP":        "#777bb4",
	"C":          "#283593",
	"C++":        "#00599C",
	"C#":         "#68217A",
	"HTML":       "#e44d26",
	"CSS":        "#264de4",
	"Shell":      "#89e051",
}

// Color returns the hex colour used to draw a language.
func Color(language string) string {
	if c, ok := palette[language]; ok {
		return c
	}
	return Neutral
}

// Abbrev returns the short label drawn when a language has no palette entry.
func Abbrev(language string) string {
	r := []rune(language)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}
