package tags

// Payload is the structured content produced by a tag handler.
type Payload interface {
	payload()
}

// Text is free prose such as theory, hints and feedback.
type Text struct {
	Text string `json:"text"`
}

// Media references an image, video or embedded page.
type Media struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
	Title   string `json:"title,omitempty"`
	Width   string `json:"width,omitempty"`
	Height  string `json:"height,omitempty"`
}

// Link is one entry of an explore block.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Explore lists further-reading links.
type Explore struct {
	Links []Link `json:"links"`
}

// Book points at a textbook location.
type Book struct {
	Title     string `json:"title,omitempty"`
	Chapter   string `json:"chapter,omitempty"`
	Section   string `json:"section,omitempty"`
	Pages     string `json:"pages,omitempty"`
	StartPage int    `json:"start_page,omitempty"`
}

// Pair is one "key: value" line of a matches block.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Matches holds matching pairs in declaration order.
type Matches struct {
	Pairs []Pair `json:"pairs"`
}

// Item is one entry of an items block.
type Item struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// Items holds ordering items in declaration order.
type Items struct {
	Items []Item `json:"items"`
}

// Order is the raw target permutation of a correct_order block. Entries may
// name item ids, positions or item texts.
type Order struct {
	Entries []string `json:"entries"`
}

// Blank lists the accepted alternatives for one placeholder.
type Blank struct {
	ID           string   `json:"id"`
	Alternatives []string `json:"alternatives"`
}

// Blanks holds blank answer keys in declaration order.
type Blanks struct {
	Entries []Blank `json:"entries"`
}

// Lookup returns the blank with the given id.
func (b Blanks) Lookup(id string) (Blank, bool) {
	for _, entry := range b.Entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Blank{}, false
}

// Raw carries the untouched content of a tag with no registered handler.
type Raw struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

func (Text) payload()    {}
func (Media) payload()   {}
func (Explore) payload() {}
func (Book) payload()    {}
func (Matches) payload() {}
func (Items) payload()   {}
func (Order) payload()   {}
func (Blanks) payload()  {}
func (Raw) payload()     {}

// Block is a parsed tag block attached to a question.
type Block struct {
	Tag     string  `json:"tag"`
	Payload Payload `json:"payload"`
	Line    int     `json:"line"`
}
