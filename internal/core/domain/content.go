package domain

import (
	"regexp"
	"strings"
)

// GenerateRequest asks the content studio for a social post.
type GenerateRequest struct {
	Topic        string   `json:"topic"`
	SEOOptimized *bool    `json:"seoOptimized,omitempty"`
	Platform     Platform `json:"platform,omitempty"`
}

// GeneratedContent is a generated post plus derived quality metrics.
type GeneratedContent struct {
	Success     bool     `json:"success"`
	Content     string   `json:"content"`
	Title       string   `json:"title"`
	WordCount   int      `json:"wordCount"`
	SEOScore    int      `json:"seoScore"`
	Readability string   `json:"readability"`
	Keywords    []string `json:"keywords"`
}

var (
	hashtagPattern  = regexp.MustCompile(`#\w+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

const (
	baseSEOScore      = 70
	hashtagSEOBonus   = 5
	lengthSEOBonus    = 10
	lengthBonusWords  = 150
	maxSEOScore       = 98
	readableSentences = 20
)

// ScoreContent derives word count, SEO score, readability grade and keywords from text.
func ScoreContent(title, content string) *GeneratedContent {
	hashtags := hashtagPattern.FindAllString(content, -1)
	wordCount := len(strings.Fields(content))

	score := baseSEOScore + len(hashtags)*hashtagSEOBonus
	if wordCount > lengthBonusWords {
		score += lengthSEOBonus
	}
	if score > maxSEOScore {
		score = maxSEOScore
	}

	sentences := len(sentencePattern.Split(content, -1))
	if sentences == 0 {
		sentences = 1
	}
	readability := "B"
	if float64(wordCount)/float64(sentences) < readableSentences {
		readability = "A"
	}

	keywords := make([]string, 0, len(hashtags))
	for _, h := range hashtags {
		keywords = append(keywords, strings.ToLower(strings.TrimPrefix(h, "#")))
	}

	return &GeneratedContent{
		Success:     true,
		Content:     content,
		Title:       title,
		WordCount:   wordCount,
		SEOScore:    score,
		Readability: readability,
		Keywords:    keywords,
	}
}
