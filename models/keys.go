package models

import "strconv"

// MediaKey builds the "type:id" key used to deduplicate media references.
func MediaKey(mediaType string, id int64) string {
	return mediaType + ":" + strconv.FormatInt(id, 10)
}
