package models

// BuildThread turns a flat, created_at-ascending comment list into a forest
// rooted at the comments with no parent. Relative order is preserved at every
// level. Children are grouped in one pass and attached by walking down from
// the roots, so a malformed parent chain that forms a cycle never loops: the
// comments on it are unreachable from any root and are simply dropped.
func BuildThread(comments []Comment) []CommentNode {
	children := make(map[int][]Comment, len(comments))
	var roots []Comment
	for _, c := range comments {
		if c.ParentCommentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentCommentID] = append(children[*c.ParentCommentID], c)
	}
	return attachReplies(roots, children)
}

func attachReplies(level []Comment, children map[int][]Comment) []CommentNode {
	nodes := make([]CommentNode, 0, len(level))
	for _, c := range level {
		kids := children[c.ID]
		// A comment listed as its own parent would otherwise recurse forever.
		delete(children, c.ID)
		nodes = append(nodes, CommentNode{
			Comment: c,
			Replies: attachReplies(kids, children),
		})
	}
	return nodes
}
