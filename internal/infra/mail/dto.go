package mail

type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
