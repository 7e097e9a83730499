// Package types contains the domain models returned by the snoo client.
//
// Reddit wraps every object in a {kind, data} envelope. Each model here is
// built from the "data" node of such an envelope; constructors take a
// gjson.Result pointing at that node and read the fields they care about.
// Fields Reddit omits come back as zero values.
package types

import "github.com/tidwall/gjson"

// Kind prefixes used by the Reddit "thing" envelope.
const (
	KindComment   = "t1"
	KindAccount   = "t2"
	KindLink      = "t3"
	KindMessage   = "t4"
	KindSubreddit = "t5"
	KindListing   = "Listing"
	KindMore      = "more"
)

// Account represents a Reddit user account.
type Account struct {
	ID       string
	FullName string // e.g. "t2_abc123"
	Name     string // the username

	LinkKarma    int
	CommentKarma int
	CreatedUTC   float64

	IsGold           bool
	IsMod            bool
	IsFriend         bool
	Over18           bool
	HasMail          bool
	HasVerifiedEmail bool
}

// NewAccount builds an Account from the data node of a t2 envelope.
func NewAccount(node gjson.Result) *Account {
	return &Account{
		ID:               node.Get("id").String(),
		FullName:         fullName(node, KindAccount),
		Name:             node.Get("name").String(),
		LinkKarma:        int(node.Get("link_karma").Int()),
		CommentKarma:     int(node.Get("comment_karma").Int()),
		CreatedUTC:       node.Get("created_utc").Float(),
		IsGold:           node.Get("is_gold").Bool(),
		IsMod:            node.Get("is_mod").Bool(),
		IsFriend:         node.Get("is_friend").Bool(),
		Over18:           node.Get("over_18").Bool(),
		HasMail:          node.Get("has_mail").Bool(),
		HasVerifiedEmail: node.Get("has_verified_email").Bool(),
	}
}

// Subreddit represents a subreddit's metadata.
type Subreddit struct {
	ID       string
	FullName string
	URL      string

	DisplayName       string
	Title             string
	Description       string
	PublicDescription string
	SubredditType     string
	SubmissionType    string

	Subscribers    int64
	AccountsActive int
	Over18         bool
}

// NewSubreddit builds a Subreddit from the data node of a t5 envelope.
func NewSubreddit(node gjson.Result) *Subreddit {
	return &Subreddit{
		ID:                node.Get("id").String(),
		FullName:          fullName(node, KindSubreddit),
		URL:               node.Get("url").String(),
		DisplayName:       node.Get("display_name").String(),
		Title:             node.Get("title").String(),
		Description:       node.Get("description").String(),
		PublicDescription: node.Get("public_description").String(),
		SubredditType:     node.Get("subreddit_type").String(),
		SubmissionType:    node.Get("submission_type").String(),
		Subscribers:       node.Get("subscribers").Int(),
		AccountsActive:    int(node.Get("accounts_active").Int()),
		Over18:            node.Get("over18").Bool(),
	}
}

// Submission represents a link or self post.
type Submission struct {
	ID       string
	FullName string

	Title     string
	Author    string
	Subreddit string
	Domain    string
	URL       string
	Permalink string
	SelfText  string
	IsSelf    bool

	Score       int
	NumComments int
	CreatedUTC  float64

	Over18   bool
	Stickied bool
	Locked   bool

	// Comments holds the parsed comment forest when the submission was
	// fetched through the comments endpoint. Nil otherwise.
	Comments []*Comment
	// MoreIDs holds IDs of top-level comments Reddit truncated from the
	// tree.
	MoreIDs []string
}

// NewSubmission builds a Submission from the data node of a t3 envelope.
func NewSubmission(node gjson.Result) *Submission {
	return &Submission{
		ID:          node.Get("id").String(),
		FullName:    fullName(node, KindLink),
		Title:       node.Get("title").String(),
		Author:      node.Get("author").String(),
		Subreddit:   node.Get("subreddit").String(),
		Domain:      node.Get("domain").String(),
		URL:         node.Get("url").String(),
		Permalink:   node.Get("permalink").String(),
		SelfText:    node.Get("selftext").String(),
		IsSelf:      node.Get("is_self").Bool(),
		Score:       int(node.Get("score").Int()),
		NumComments: int(node.Get("num_comments").Int()),
		CreatedUTC:  node.Get("created_utc").Float(),
		Over18:      node.Get("over_18").Bool(),
		Stickied:    node.Get("stickied").Bool(),
		Locked:      node.Get("locked").Bool(),
	}
}

// Comment represents a single comment and its replies.
type Comment struct {
	ID       string
	FullName string

	Author    string
	Body      string
	BodyHTML  string
	Subreddit string
	LinkID    string
	ParentID  string

	Score       int
	ScoreHidden bool
	CreatedUTC  float64

	// Replies holds the child comments in endpoint order.
	Replies []*Comment
	// MoreIDs holds IDs of children Reddit truncated from the tree.
	MoreIDs []string
}

// NewComment builds a Comment (and its reply subtree) from the data node of
// a t1 envelope. Reddit encodes an empty reply list as the empty string, so
// the "replies" field is only descended into when it is an object.
func NewComment(node gjson.Result) *Comment {
	c := &Comment{
		ID:          node.Get("id").String(),
		FullName:    fullName(node, KindComment),
		Author:      node.Get("author").String(),
		Body:        node.Get("body").String(),
		BodyHTML:    node.Get("body_html").String(),
		Subreddit:   node.Get("subreddit").String(),
		LinkID:      node.Get("link_id").String(),
		ParentID:    node.Get("parent_id").String(),
		Score:       int(node.Get("score").Int()),
		ScoreHidden: node.Get("score_hidden").Bool(),
		CreatedUTC:  node.Get("created_utc").Float(),
	}

	replies := node.Get("replies")
	if replies.IsObject() {
		for _, child := range replies.Get("data.children").Array() {
			switch child.Get("kind").String() {
			case KindComment:
				c.Replies = append(c.Replies, NewComment(child.Get("data")))
			case KindMore:
				for _, id := range child.Get("data.children").Array() {
					c.MoreIDs = append(c.MoreIDs, id.String())
				}
			}
		}
	}

	return c
}

// Message represents a private message.
type Message struct {
	ID       string
	FullName string

	Author     string
	Subject    string
	Body       string
	Subreddit  string
	New        bool
	WasComment bool
	CreatedUTC float64
}

// NewMessage builds a Message from the data node of a t4 envelope.
func NewMessage(node gjson.Result) *Message {
	return &Message{
		ID:         node.Get("id").String(),
		FullName:   fullName(node, KindMessage),
		Author:     node.Get("author").String(),
		Subject:    node.Get("subject").String(),
		Body:       node.Get("body").String(),
		Subreddit:  node.Get("subreddit").String(),
		New:        node.Get("new").Bool(),
		WasComment: node.Get("was_comment").Bool(),
		CreatedUTC: node.Get("created_utc").Float(),
	}
}

// Captcha identifies a captcha challenge. The image itself is fetched by the
// caller from URL.
type Captcha struct {
	Iden string
	URL  string
}

// RenderStringPair holds text Reddit supplies in both markdown and HTML form.
type RenderStringPair struct {
	Markdown string
	HTML     string
}

// CommentSort enumerates the sort orders accepted by the comments endpoint.
type CommentSort string

const (
	CommentSortConfidence    CommentSort = "confidence"
	CommentSortTop           CommentSort = "top"
	CommentSortNew           CommentSort = "new"
	CommentSortHot           CommentSort = "hot"
	CommentSortControversial CommentSort = "controversial"
	CommentSortOld           CommentSort = "old"
	CommentSortRandom        CommentSort = "random"
)

// SubmissionRequest describes a request for a single submission and its
// comment tree. Only ID is required; zero values mean "not set" and the
// corresponding query parameter is omitted.
type SubmissionRequest struct {
	// ID is the submission's base36 ID, e.g. "92dd8".
	ID string

	// Depth caps the number of reply levels returned. 0 means no limit.
	Depth int

	// Context is the number of parents shown in relation to Focus.
	Context int

	// Limit caps the number of comments returned. 0 uses Reddit's default.
	Limit int

	// Sort orders the comment tree. Empty uses Reddit's default.
	Sort CommentSort

	// Focus is the ID of a comment to center the tree on. Ignored when it
	// does not name a comment in the thread.
	Focus string
}

// fullName returns the "name" field if present and otherwise derives it from
// the kind prefix and ID, since some endpoints omit the fullname.
func fullName(node gjson.Result, kind string) string {
	if name := node.Get("name").String(); name != "" {
		return name
	}
	if id := node.Get("id").String(); id != "" {
		return kind + "_" + id
	}
	return ""
}
