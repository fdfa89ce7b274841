package model

import (
	"github.com/tidwall/gjson"
)

// CommentColumns is the header of the comment table, in column order.
var CommentColumns = []string{
	"product_id",
	"comment_id",
	"title",
	"body",
	"rate",
	"date",
	"user_name",
}

// CommentRecord is one flattened product comment.
type CommentRecord struct {
	ProductID Value  `json:"product_id"`
	CommentID *Value `json:"comment_id"`
	Title     *Value `json:"title"`
	Body      *Value `json:"body"`
	Rate      *Value `json:"rate"`
	Date      *Value `json:"date"` // created_at as sent by the API
	UserName  *Value `json:"user_name"`
}

// FlattenComment extracts a CommentRecord from one entry of data.comments.
func FlattenComment(productID Value, comment gjson.Result) CommentRecord {
	return CommentRecord{
		ProductID: productID,
		CommentID: optValue(comment.Get("id")),
		Title:     optValue(comment.Get("title")),
		Body:      optValue(comment.Get("body")),
		Rate:      optValue(comment.Get("rate")),
		Date:      optValue(comment.Get("created_at")),
		UserName:  optValue(comment.Get("user_name")),
	}
}

func (c CommentRecord) Key() string {
	return c.CommentID.String()
}

// Row renders the record in CommentColumns order.
func (c CommentRecord) Row() []string {
	return []string{
		c.ProductID.String(),
		c.CommentID.String(),
		c.Title.String(),
		c.Body.String(),
		c.Rate.String(),
		c.Date.String(),
		c.UserName.String(),
	}
}
