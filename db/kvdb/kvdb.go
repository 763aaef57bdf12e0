package kvdb

// Buckets known to the store. They are created when the store is opened.
const (
	HotelsBucket   = "hotels"
	RequestsBucket = "reindex_requests"
)

var buckets = []string{HotelsBucket, RequestsBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	ForEach(bucket string, fn func(key string, value string) error) error
	Count(bucket string) (int, error)
	Close() error
}
