package constants

// 账户事件类型
const (
	// EventUserRegistered 注册成功，需要发送验证邮件
	EventUserRegistered = "user.registered"
	// EventVerificationResent 重新发送验证邮件
	EventVerificationResent = "user.verification_resent"
	// EventPasswordResetRequested 申请重置密码
	EventPasswordResetRequested = "user.password_reset_requested"
)
