package entity

// MailStatus は配信試行の結果種別です。
type MailStatus string

const (
	StatusSent   MailStatus = "sent"
	StatusDryRun MailStatus = "dryrun"
	StatusError  MailStatus = "error"
)

// MailResult は1通の配信試行の結果です。
type MailResult struct {
	Status    MailStatus `json:"status"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject"`
}
