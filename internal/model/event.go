package model

// EventBlog is the nested blog write-up attached to an event.
type EventBlog struct {
	Heading string `json:"bhead"`
	Body    string `json:"blogPara1"`
	Image   string `json:"bImage1"`
}

// Event is an event gallery entry as served by the backend. Image fields hold
// URLs once stored; on create the raw files travel in the multipart payload.
type Event struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"desc"`
	BannerImage string    `json:"bannerImage"`
	Blog        EventBlog `json:"blog"`
}

// Gallery is a photo gallery entry as served by the backend.
type Gallery struct {
	ID     string   `json:"_id"`
	Title  string   `json:"title"`
	Images []string `json:"images"`
}
