package cache

import (
	"fmt"
	"time"
)

const (
	PageTTL   = 5 * time.Minute
	StatsTTL  = 10 * time.Minute
	TagsTTL   = 10 * time.Minute
	SearchTTL = 2 * time.Minute
	DetailTTL = 30 * time.Minute
)

func PageKey(page, pageSize int, search, typ string) string {
	return fmt.Sprintf("posts:page:%d:%d:%s:%s", page, pageSize, search, typ)
}

func StatsKey() string {
	return "stats"
}

func TagsKey(limit int) string {
	return fmt.Sprintf("tags:popular:%d", limit)
}

func SearchKey(query string, limit int) string {
	return fmt.Sprintf("search:%s:%d", query, limit)
}

func UserPostsKey(userID string, limit int) string {
	return fmt.Sprintf("user:%s:posts:%d", userID, limit)
}

func DetailKey(postID string) string {
	return fmt.Sprintf("post:%s", postID)
}
