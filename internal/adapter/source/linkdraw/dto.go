package linkdraw

import (
	"time"

	"github.com/mmcdole/mosaic/internal/domain"
)

// envelope is the common response wrapper of the link-draw API
type envelope struct {
	Code    int      `json:"code"`
	Msg     string   `json:"msg"`
	Message string   `json:"message"`
	Data    listData `json:"data"`
}

type listData struct {
	TotalCount int        `json:"total_count"`
	Items      []listItem `json:"items"`
}

type listItem struct {
	User userDTO `json:"user"`
	Item docDTO  `json:"item"`
}

type userDTO struct {
	UID     int64  `json:"uid"`
	HeadURL string `json:"head_url"`
	Name    string `json:"name"`
}

type docDTO struct {
	DocID       int64        `json:"doc_id"`
	PosterUID   int64        `json:"poster_uid"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Pictures    []pictureDTO `json:"pictures"`
	CTime       int64        `json:"ctime"`
	LikeCount   int          `json:"like_count"`
}

type pictureDTO struct {
	ImgSrc    string `json:"img_src"`
	ImgWidth  int    `json:"img_width"`
	ImgHeight int    `json:"img_height"`
}

// errorMessage prefers the more specific message field
func (e envelope) errorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

func mapPost(it listItem) domain.Post {
	pics := make([]domain.Picture, len(it.Item.Pictures))
	for i, p := range it.Item.Pictures {
		pics[i] = domain.Picture{Src: p.ImgSrc, Width: p.ImgWidth, Height: p.ImgHeight}
	}

	var uploaded time.Time
	if it.Item.CTime > 0 {
		uploaded = time.Unix(it.Item.CTime, 0)
	}

	return domain.Post{
		DocID:       it.Item.DocID,
		Title:       it.Item.Title,
		Description: it.Item.Description,
		Pictures:    pics,
		Author: domain.User{
			UID:     it.User.UID,
			Name:    it.User.Name,
			HeadURL: it.User.HeadURL,
		},
		UploadedAt: uploaded,
		Likes:      it.Item.LikeCount,
	}
}
