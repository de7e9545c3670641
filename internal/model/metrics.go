package model

// EmojiCount is an emoji and how often it was used.
type EmojiCount struct {
	Emoji string `json:"emoji" yaml:"emoji"`
	Count int    `json:"count" yaml:"count"`
}

// WordCount is a word and how often it was used.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// PhraseCount is a 2- or 3-word phrase and how often it was used.
type PhraseCount struct {
	Phrase string `json:"phrase" yaml:"phrase"`
	Count  int    `json:"count" yaml:"count"`
}

// ResponseTime is a participant's average reply delay in minutes.
type ResponseTime struct {
	User       string `json:"user" yaml:"user"`
	AvgMinutes int    `json:"avgMinutes" yaml:"avgMinutes"`
}

// TimelinePoint is one bucket of a dense time series.
type TimelinePoint struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// PrimeTime is the busiest hour of the day.
type PrimeTime struct {
	Hour  int `json:"hour" yaml:"hour"`
	Count int `json:"count" yaml:"count"`
}

// Badge is an award derived from the finished metrics.
type Badge struct {
	Badge       string `json:"badge" yaml:"badge"`
	User        string `json:"user" yaml:"user"`
	Description string `json:"description" yaml:"description"`
}

// Heatmap counts messages per weekday (0 = Sunday) and hour.
type Heatmap [7][24]int

// Laugh style buckets.
const (
	LaughJaja  = "jaja"
	LaughHaha  = "haha"
	LaughLol   = "lol"
	LaughOther = "other"
)

// Metrics is the aggregate computed from one chat.
// Maps keyed by a participant name are rewritten by aliasing.
type Metrics struct {
	Participants    []string        `json:"participants" yaml:"participants"`
	TotalMessages   int             `json:"totalMessages" yaml:"totalMessages"`
	MessagesByUser  map[string]int  `json:"messagesByUser" yaml:"messagesByUser"`
	DailyInitiators map[string]int  `json:"dailyInitiators" yaml:"dailyInitiators"`
	LoveCount       int             `json:"loveCount" yaml:"loveCount"`
	AffectionCount  int             `json:"affectionCount" yaml:"affectionCount"`
	EmojiTop        []EmojiCount    `json:"emojiTop" yaml:"emojiTop"`
	ResponseTimes   []ResponseTime  `json:"responseTimes" yaml:"responseTimes"`
	Heatmap         Heatmap         `json:"heatmap" yaml:"heatmap"`
	Timeline        []TimelinePoint `json:"timeline" yaml:"timeline"`
	Badges          []Badge         `json:"badges" yaml:"badges"`

	ChatDryness      map[string]int `json:"chatDryness" yaml:"chatDryness"`
	DoubleTexting    map[string]int `json:"doubleTexting" yaml:"doubleTexting"`
	LaughMeter       map[string]int `json:"laughMeter" yaml:"laughMeter"`
	NightOwl         map[string]int `json:"nightOwl" yaml:"nightOwl"`
	LongestMonologue map[string]int `json:"longestMonologue" yaml:"longestMonologue"`
	WeekendWarrior   map[string]int `json:"weekendWarrior" yaml:"weekendWarrior"`

	WordCount        map[string]int          `json:"wordCount" yaml:"wordCount"`
	WordStock        map[string]int          `json:"wordStock" yaml:"wordStock"`
	MaxMessageLength map[string]int          `json:"maxMessageLength" yaml:"maxMessageLength"`
	EmojisByUser     map[string][]EmojiCount `json:"emojisByUser" yaml:"emojisByUser"`
	LoveCountByUser  map[string]int          `json:"loveCountByUser" yaml:"loveCountByUser"`

	AudioCount  map[string]int `json:"audioCount" yaml:"audioCount"`
	YoyoCount   map[string]int `json:"yoyoCount" yaml:"yoyoCount"`
	KillerCount map[string]int `json:"killerCount" yaml:"killerCount"`
	ToxicCount  map[string]int `json:"toxicCount" yaml:"toxicCount"`
	PardonCount map[string]int `json:"pardonCount" yaml:"pardonCount"`
	PrimeTime   PrimeTime      `json:"primeTime" yaml:"primeTime"`

	LoveTimeline        []TimelinePoint           `json:"loveTimeline" yaml:"loveTimeline"`
	GoodMorningStreak   map[string]int            `json:"goodMorningStreak" yaml:"goodMorningStreak"`
	Nicknames           map[string]map[string]int `json:"nicknames" yaml:"nicknames"`
	LongestResponseTime map[string]float64        `json:"longestResponseTime" yaml:"longestResponseTime"`
	QuestionCount       map[string]int            `json:"questionCount" yaml:"questionCount"`

	DeletedCount map[string]int            `json:"deletedCount" yaml:"deletedCount"`
	StickerCount map[string]int            `json:"stickerCount" yaml:"stickerCount"`
	LinkCount    map[string]int            `json:"linkCount" yaml:"linkCount"`
	LaughStyles  map[string]map[string]int `json:"laughStyles" yaml:"laughStyles"`
	BadWords     map[string]map[string]int `json:"badWords" yaml:"badWords"`
	Politeness   map[string]map[string]int `json:"politeness" yaml:"politeness"`
	TopWords     map[string][]WordCount    `json:"topWords" yaml:"topWords"`
	TopPhrases   map[string][]PhraseCount  `json:"topPhrases" yaml:"topPhrases"`

	ImageCount        map[string]int `json:"imageCount" yaml:"imageCount"`
	GifCount          map[string]int `json:"gifCount" yaml:"gifCount"`
	ExclamationCount  map[string]int `json:"exclamationCount" yaml:"exclamationCount"`
	EllipsisCount     map[string]int `json:"ellipsisCount" yaml:"ellipsisCount"`
	FastResponseCount map[string]int `json:"fastResponseCount" yaml:"fastResponseCount"`
	LongResponseCount map[string]int `json:"longResponseCount" yaml:"longResponseCount"`

	EmojiDensity   map[string]int `json:"emojiDensity" yaml:"emojiDensity"`
	SentimentScore map[string]int `json:"sentimentScore" yaml:"sentimentScore"`
}

// TopInitiator is the participant who opened the most days.
type TopInitiator struct {
	User  string `json:"user" yaml:"user"`
	Count int    `json:"count" yaml:"count"`
}

// Teaser is the unauthenticated preview of a report.
type Teaser struct {
	TopInitiator *TopInitiator `json:"topInitiator" yaml:"topInitiator"`
	LoveCount    int           `json:"loveCount" yaml:"loveCount"`
}
