package internal

import (
	"fmt"
	"strings"
)

// VideoRecord is one playlist entry as reported by yt-dlp
type VideoRecord struct {
	Title string `json:"title"`
	ID    string `json:"id"`
	URL   string `json:"url"`
}

// Style selects the tone of a generated summary
type Style string

const (
	StyleDetailed    Style = "detailed"
	StyleShort       Style = "short"
	StyleAcademic    Style = "academic"
	StyleDescriptive Style = "descriptive"
	StyleTechnical   Style = "technical"
)

// DefaultStyle is used when no style or an unknown style is requested
const DefaultStyle = StyleDetailed

var styleInstructions = map[Style]string{
	StyleDetailed:    "Provide a detailed summary covering all main points, arguments and conclusions of the video.",
	StyleShort:       "Provide a short summary of the video in 3-5 sentences.",
	StyleAcademic:    "Provide an academic summary of the video with a formal tone, key concepts, methodology and conclusions.",
	StyleDescriptive: "Provide a descriptive summary of the video that explains what happens and what is shown, in order.",
	StyleTechnical:   "Provide a technical summary of the video focusing on technical details, tools, code and implementation steps.",
}

// ParseStyle maps user input to a known style, falling back to DefaultStyle
func ParseStyle(s string) Style {
	style := Style(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := styleInstructions[style]; ok {
		return style
	}
	return DefaultStyle
}

// Instruction returns the natural-language directive for the style
func (s Style) Instruction() string {
	if instruction, ok := styleInstructions[s]; ok {
		return instruction
	}
	return styleInstructions[DefaultStyle]
}

func (s Style) String() string {
	return string(s)
}

// SummaryStrategy is one way of asking the backend for a summary
type SummaryStrategy int

const (
	// StrategyStructured asks for TRANSCRIPT and SUMMARY sections
	StrategyStructured SummaryStrategy = iota
	// StrategySimple asks for a summary only
	StrategySimple
)

// DefaultStrategies is the order in which strategies are tried
var DefaultStrategies = []SummaryStrategy{StrategyStructured, StrategySimple}

// String returns a human-readable representation of the strategy
func (s SummaryStrategy) String() string {
	switch s {
	case StrategyStructured:
		return "structured"
	case StrategySimple:
		return "simple"
	default:
		return "unknown"
	}
}

// SummaryResult is a successful summarization of one video
type SummaryResult struct {
	VideoID     string          `json:"video_id"`
	Title       string          `json:"title,omitempty"`
	Transcript  string          `json:"transcript"`
	Summary     string          `json:"summary"`
	Style       Style           `json:"style"`
	RawResponse string          `json:"raw_response,omitempty"`
	Strategy    SummaryStrategy `json:"-"`
}

// BatchManifestEntry records the outcome of one video in a batch run
type BatchManifestEntry struct {
	VideoID  string `json:"video_id"`
	VideoURL string `json:"video_url"`
	Title    string `json:"title"`
	Success  bool   `json:"success"`
	FilePath string `json:"file_path,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PlaylistInfo describes the playlist a batch ran against
type PlaylistInfo struct {
	URL        string `json:"url"`
	ID         string `json:"id"`
	VideoCount int    `json:"video_count"`
	Style      Style  `json:"style"`
	Succeeded  int    `json:"succeeded"`
	Failed     int    `json:"failed"`
}

// BatchResult is the outcome of a whole batch run
type BatchResult struct {
	PlaylistInfo PlaylistInfo         `json:"playlist_info"`
	Summaries    []BatchManifestEntry `json:"summaries"`
	CombinedFile string               `json:"combined_file"`
}

// String returns a one-line overview of the batch
func (b *BatchResult) String() string {
	return fmt.Sprintf("BatchResult{playlist=%s, videos=%d, ok=%d, failed=%d}",
		b.PlaylistInfo.ID, b.PlaylistInfo.VideoCount, b.PlaylistInfo.Succeeded, b.PlaylistInfo.Failed)
}
