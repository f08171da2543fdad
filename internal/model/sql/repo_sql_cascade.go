package sql

import (
	"labelhub/internal/entity"

	"gorm.io/gorm"
)

// CascadeArtist removes everything that belongs to an artist: members,
// albums, tracks, events and co-credit links. Tracks of other artists that
// sit on one of the removed albums are detached.
func CascadeArtist(tx *gorm.DB, id uint) error {
	var trackIDs, albumIDs []uint
	if err := tx.Model(&entity.Track{}).Where("artist_id = ?", id).Pluck("id", &trackIDs).Error; err != nil {
		return err
	}
	if err := tx.Model(&entity.Album{}).Where("artist_id = ?", id).Pluck("id", &albumIDs).Error; err != nil {
		return err
	}

	statements := []struct {
		sql  string
		args []interface{}
	}{
		{"DELETE FROM track_artists WHERE artist_id = ? OR track_id IN ?", []interface{}{id, orNone(trackIDs)}},
		{"DELETE FROM album_artists WHERE artist_id = ? OR album_id IN ?", []interface{}{id, orNone(albumIDs)}},
		{"UPDATE tracks SET album_id = NULL WHERE album_id IN ?", []interface{}{orNone(albumIDs)}},
		{"DELETE FROM tracks WHERE artist_id = ?", []interface{}{id}},
		{"DELETE FROM albums WHERE artist_id = ?", []interface{}{id}},
		{"DELETE FROM events WHERE artist_id = ?", []interface{}{id}},
		{"DELETE FROM artist_members WHERE artist_id = ?", []interface{}{id}},
	}
	for _, stmt := range statements {
		if err := tx.Exec(stmt.sql, stmt.args...).Error; err != nil {
			return err
		}
	}
	return nil
}

// ArtistFiles lists the stored files of an artist's members, albums, tracks
// and events.
func ArtistFiles(tx *gorm.DB, id uint) ([]string, error) {
	sources := []struct {
		model  interface{}
		column string
	}{
		{&entity.Member{}, "photo"},
		{&entity.Album{}, "cover"},
		{&entity.Track{}, "cover"},
		{&entity.Event{}, "image"},
	}
	files := make([]string, 0)
	for _, source := range sources {
		var names []string
		if err := tx.Model(source.model).
			Where("artist_id = ? AND "+source.column+" <> ''", id).
			Pluck(source.column, &names).Error; err != nil {
			return nil, err
		}
		files = append(files, names...)
	}
	return files, nil
}

// CascadeAlbum detaches tracks from an album and drops its co-credits.
func CascadeAlbum(tx *gorm.DB, id uint) error {
	if err := tx.Exec("UPDATE tracks SET album_id = NULL WHERE album_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Exec("DELETE FROM album_artists WHERE album_id = ?", id).Error
}

// CascadeTrack drops the co-credits of a track.
func CascadeTrack(tx *gorm.DB, id uint) error {
	return tx.Exec("DELETE FROM track_artists WHERE track_id = ?", id).Error
}

// orNone keeps "IN ?" valid for empty id lists.
func orNone(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{0}
	}
	return ids
}
