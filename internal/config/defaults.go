package config

import "time"

// Default values for configuration.
const (
	DefaultLogLevel = "info"

	DefaultHTTPPort            = 3000
	DefaultHTTPMode            = "release"
	DefaultHTTPReadTimeout     = 15 * time.Second
	DefaultHTTPWriteTimeout    = 30 * time.Second
	DefaultHTTPShutdownTimeout = 10 * time.Second

	DefaultDBDriver           = "sqlite"
	DefaultDBPath             = "loandesk.db"
	DefaultDBMaxOpenConns     = 10
	DefaultDBMaxIdleConns     = 5
	DefaultDBConnMaxLifetime  = time.Hour
	DefaultDBOperationTimeout = 15 * time.Second

	DefaultTelegramPollTimeout = 30 * time.Second

	DefaultBankName       = "KBank"
	DefaultCaseIDAttempts = 5

	DefaultMaintenanceSchedule = "0 0 3 * * *"
)

// DefaultMessages are the Thai chat replies.
var DefaultMessages = MessagesConfig{
	Help: "สวัสดีครับ ระบบสินเชื่อบ้าน\n\n" +
		"• เปิดเคสใหม่:\n" +
		"#เปิดเคส ชื่อลูกค้า=... | เงินเดือน=... | วงเงิน=...\n\n" +
		"• เช็คสถานะเคส:\n" +
		"#เช็คเคส เลขเคส หรือชื่อลูกค้า",
	PromptQuery:       "กรุณาระบุเลขเคส หรือชื่อลูกค้า",
	NotFound:          `❌ ไม่พบเคส "%s"`,
	SaveFailed:        "❌ ระบบขัดข้อง ไม่สามารถบันทึกเคสได้ กรุณาลองใหม่อีกครั้ง",
	LookupFailed:      "❌ ระบบขัดข้อง ไม่สามารถค้นหาเคสได้ กรุณาลองใหม่อีกครั้ง",
	PartnerLinkFailed: "❌ ระบบขัดข้อง ไม่สามารถผูก Partner กับ LINE ได้",
}
