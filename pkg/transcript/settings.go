package transcript

import (
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner/processors"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

// Profile names.
const (
	ProfileTitlesOnly           = "titles_only"
	ProfileTitlesAndParentheses = "titles_and_parentheses"

	// DefaultProfile is used when no profile, or an unknown one, is requested.
	DefaultProfile = ProfileTitlesAndParentheses
)

// DefaultProcessors run when processors are selected by name with an
// empty list.
var DefaultProcessors = []string{"special_chars", "seif_marker", "title_style", "brackets_inline", "whitespace"}

// Settings are the shared knobs built-in profiles and by-name processors
// are configured from.
type Settings struct {
	ExceptionPatterns   []string `mapstructure:"exception_patterns" validate:"dive,required"`
	ForceRemovePatterns []string `mapstructure:"force_remove_patterns" validate:"dive,required"`
	MinWords            int      `mapstructure:"min_words" validate:"gte=0"`
	SizeThreshold       float64  `mapstructure:"size_threshold" validate:"gt=0"`
	BoldMaxWords        int      `mapstructure:"bold_max_words" validate:"gte=0"`
	NonSpeechPatterns   []string `mapstructure:"non_speech_patterns"`
	AdditionalPatterns  []string `mapstructure:"additional_patterns"`
	RemoveAll           bool     `mapstructure:"remove_all"`
}

// DefaultSettings returns the standard pattern lists and thresholds.
func DefaultSettings() Settings {
	title := processors.DefaultTitleStyleArgs()
	return Settings{
		ExceptionPatterns:   title.ExceptionPatterns,
		ForceRemovePatterns: title.ForceRemovePatterns,
		MinWords:            title.MinWords,
		SizeThreshold:       document.DefaultSizeThreshold,
		BoldMaxWords:        title.BoldMaxWords,
	}
}

// ProcessorArgs returns the arguments a processor gets when selected by
// name. Processors without options get nil.
func (s Settings) ProcessorArgs(name string) map[string]any {
	switch name {
	case "title_style":
		return s.titleArgs()
	case "force_remove":
		return map[string]any{"force_remove_patterns": s.ForceRemovePatterns}
	case "brackets_inline":
		return map[string]any{"exception_patterns": s.ExceptionPatterns}
	case "regex":
		return map[string]any{
			"patterns":           processors.BracketPatterns,
			"exception_patterns": s.ExceptionPatterns,
		}
	case "parentheses_notes":
		return s.parenArgs(s.RemoveAll)
	case "editorial_hebrew":
		return map[string]any{
			"additional_patterns": s.AdditionalPatterns,
			"exception_patterns":  s.ExceptionPatterns,
		}
	}
	return nil
}

func (s Settings) titleArgs() map[string]any {
	return map[string]any{
		"min_words":             s.MinWords,
		"size_threshold":        s.SizeThreshold,
		"bold_max_words":        s.BoldMaxWords,
		"exception_patterns":    s.ExceptionPatterns,
		"force_remove_patterns": s.ForceRemovePatterns,
	}
}

func (s Settings) parenArgs(removeAll bool) map[string]any {
	args := map[string]any{
		"exception_patterns": s.ExceptionPatterns,
		"remove_all":         removeAll,
	}
	if len(s.NonSpeechPatterns) > 0 {
		args["non_speech_patterns"] = s.NonSpeechPatterns
	}
	return args
}

// BuiltinProfiles returns fresh instances of the standard profiles.
func (s Settings) BuiltinProfiles() []*Profile {
	return []*Profile{
		NewProfile(ProfileTitlesOnly,
			"5710-5711 Transcripts",
			"Removes titles based on Word heading styles, short paragraphs (less than 5 words), and larger-than-normal font size. Keeps bracketed/parenthetical notes.",
			ProcessorConfig{Name: "special_chars"},
			ProcessorConfig{Name: "seif_marker"},
			ProcessorConfig{Name: "title_style", Args: s.titleArgs()},
			ProcessorConfig{Name: "whitespace"},
		),
		NewProfile(ProfileTitlesAndParentheses,
			"5712+ Transcripts",
			"Removes titles/headings (Word styles, short paragraphs, large fonts) AND all bracketed [notes] and parenthetical (notes) content.",
			ProcessorConfig{Name: "special_chars"},
			ProcessorConfig{Name: "seif_marker"},
			ProcessorConfig{Name: "title_style", Args: s.titleArgs()},
			ProcessorConfig{Name: "brackets_inline", Args: map[string]any{"exception_patterns": s.ExceptionPatterns}},
			ProcessorConfig{Name: "parentheses_notes", Args: s.parenArgs(true)},
			ProcessorConfig{Name: "whitespace"},
		),
	}
}
