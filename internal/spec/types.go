package spec

// Config is the effective quiz configuration. Typed fields cover the
// recognized options; Raw keeps the whole merged tree, unknown keys included.
type Config struct {
	Quiz     QuizConfig     `yaml:"quiz" json:"quiz"`
	Behavior BehaviorConfig `yaml:"behavior" json:"behavior"`
	Grading  GradingConfig  `yaml:"grading" json:"grading"`
	Buttons  ButtonsConfig  `yaml:"buttons" json:"buttons"`
	Services ServicesConfig `yaml:"services" json:"services"`
	Book     BookConfig     `yaml:"book" json:"book"`
	Code     CodeConfig     `yaml:"code" json:"code"`
	Roster   RosterConfig   `yaml:"roster" json:"roster"`

	Raw map[string]any `yaml:"-" json:"raw,omitempty"`
}

type QuizConfig struct {
	Title     string `yaml:"title" json:"title"`
	Subject   string `yaml:"subject" json:"subject,omitempty"`
	Chapter   string `yaml:"chapter" json:"chapter,omitempty"`
	Class     string `yaml:"class" json:"class,omitempty"`
	Author    string `yaml:"author" json:"author,omitempty"`
	Date      string `yaml:"date" json:"date,omitempty"`
	TimeLimit int    `yaml:"time_limit" json:"time_limit" validate:"gte=0"` // minutes, 0 = unlimited
}

type BehaviorConfig struct {
	ShuffleQuestions bool    `yaml:"shuffle_questions" json:"shuffle_questions"`
	ShuffleAnswers   bool    `yaml:"shuffle_answers" json:"shuffle_answers"`
	PassingScore     float64 `yaml:"passing_score" json:"passing_score" validate:"gte=0,lte=100"`
	ShowExplanations bool    `yaml:"show_explanations" json:"show_explanations"`
	AllowRetry       bool    `yaml:"allow_retry" json:"allow_retry"`
}

type GradingConfig struct {
	Scale float64 `yaml:"scale" json:"scale" validate:"gt=0"`
}

type ButtonsConfig struct {
	Print  bool `yaml:"print" json:"print"`
	Export bool `yaml:"export" json:"export"`
	Email  bool `yaml:"email" json:"email"`
	Share  bool `yaml:"share" json:"share"`
	Reset  bool `yaml:"reset" json:"reset"`
}

type ServicesConfig struct {
	IDEURL      string `yaml:"ide_url" json:"ide_url,omitempty" validate:"omitempty,url"`
	Email       string `yaml:"email" json:"email,omitempty" validate:"omitempty,email"`
	ShareFolder string `yaml:"share_folder" json:"share_folder,omitempty"`
	GoogleDocs  string `yaml:"google_docs" json:"google_docs,omitempty"`
}

type BookConfig struct {
	PDFPath string `yaml:"pdf_path" json:"pdf_path,omitempty"`
}

type CodeConfig struct {
	DefaultLanguage string `yaml:"default_language" json:"default_language,omitempty"`
	HighlightTheme  string `yaml:"highlight_theme" json:"highlight_theme,omitempty"`
}

type RosterConfig struct {
	Classes  []string `yaml:"classes" json:"classes,omitempty"`
	Students []string `yaml:"students" json:"students,omitempty"`
}

// Lookup walks Raw by key path and returns the value found there.
func (c Config) Lookup(path ...string) (any, bool) {
	var current any = c.Raw
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
