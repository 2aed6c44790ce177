package constants

// Redis 键
const (
	// RedisQueueMail 待发送邮件队列 (RPUSH -> BLPOP)
	RedisQueueMail = "mail_queue"

	// RedisRevokedTokenPrefix 已注销 JWT 的 jti 前缀
	RedisRevokedTokenPrefix = "auth:revoked:"
)
