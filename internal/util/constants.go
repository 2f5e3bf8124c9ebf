package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 投票方向（大小写不敏感）
const (
	VoteUp   = "up"
	VoteDown = "down"
)

const (
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

// BearerPrefix Authorization 头前缀
const BearerPrefix = "Bearer "
