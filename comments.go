package snoo

import "github.com/kgale/snoo/pkg/types"

// CommentTree provides traversal helpers over the comment forest of a
// submission. All traversals are depth-first and preserve the order the
// endpoint returned.
type CommentTree struct {
	Comments []*types.Comment
}

// NewCommentTree wraps a comment forest, typically Submission.Comments.
func NewCommentTree(comments []*types.Comment) *CommentTree {
	return &CommentTree{Comments: comments}
}

// Flatten returns every comment in the tree as a flat slice.
func (ct *CommentTree) Flatten() []*types.Comment {
	var result []*types.Comment
	ct.Walk(func(c *types.Comment) {
		result = append(result, c)
	})
	return result
}

// Filter returns the comments matching the given predicate.
func (ct *CommentTree) Filter(keep func(*types.Comment) bool) []*types.Comment {
	var result []*types.Comment
	ct.Walk(func(c *types.Comment) {
		if keep(c) {
			result = append(result, c)
		}
	})
	return result
}

// Find returns the first comment matching the given predicate, or nil.
func (ct *CommentTree) Find(match func(*types.Comment) bool) *types.Comment {
	return findRecursive(ct.Comments, match)
}

func findRecursive(comments []*types.Comment, match func(*types.Comment) bool) *types.Comment {
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		if match(comment) {
			return comment
		}
		if found := findRecursive(comment.Replies, match); found != nil {
			return found
		}
	}
	return nil
}

// GetByID returns the comment with the given ID, or nil.
func (ct *CommentTree) GetByID(id string) *types.Comment {
	return ct.Find(func(c *types.Comment) bool {
		return c.ID == id
	})
}

// GetByAuthor returns all comments written by the given author.
func (ct *CommentTree) GetByAuthor(author string) []*types.Comment {
	return ct.Filter(func(c *types.Comment) bool {
		return c.Author == author
	})
}

// TopLevel returns only the root comments.
func (ct *CommentTree) TopLevel() []*types.Comment {
	return ct.Comments
}

// Depth returns the maximum reply depth; a tree of only top-level comments
// has depth 0.
func (ct *CommentTree) Depth() int {
	return depthRecursive(ct.Comments, 0)
}

func depthRecursive(comments []*types.Comment, current int) int {
	max := current
	for _, comment := range comments {
		if comment == nil || len(comment.Replies) == 0 {
			continue
		}
		if d := depthRecursive(comment.Replies, current+1); d > max {
			max = d
		}
	}
	return max
}

// Count returns the total number of comments in the tree.
func (ct *CommentTree) Count() int {
	count := 0
	ct.Walk(func(*types.Comment) {
		count++
	})
	return count
}

// Walk applies fn to each comment, depth-first in endpoint order.
func (ct *CommentTree) Walk(fn func(*types.Comment)) {
	walkRecursive(ct.Comments, fn)
}

func walkRecursive(comments []*types.Comment, fn func(*types.Comment)) {
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		fn(comment)
		walkRecursive(comment.Replies, fn)
	}
}
