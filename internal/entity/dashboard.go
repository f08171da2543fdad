package entity

import "time"

// DashboardCounts 汇总各模块的记录数。
type DashboardCounts struct {
	Artists   int64 `json:"artists"`
	Albums    int64 `json:"albums"`
	Tracks    int64 `json:"tracks"`
	Singles   int64 `json:"singles"`
	Events    int64 `json:"events"`
	News      int64 `json:"news"`
	Services  int64 `json:"services"`
	Staff     int64 `json:"staff"`
	Documents int64 `json:"documents"`
	Users     int64 `json:"users"`
}

// DashboardStats 是仪表盘数据。
type DashboardStats struct {
	Counts         DashboardCounts `json:"counts"`
	LatestArtists  []Artist        `json:"latest_artists"`
	LatestAlbums   []Album         `json:"latest_albums"`
	LatestNews     []News          `json:"latest_news"`
	UpcomingEvents []Event         `json:"upcoming_events"`
}

// GalleryImage 是图库中的一张已上传图片。
type GalleryImage struct {
	Source    string    `json:"source"`
	SourceID  uint      `json:"source_id"`
	Title     string    `json:"title"`
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}
