package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/sas-financier/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	RoleSvc         roleService
	TransactionSvc  transactionService
	ReportSvc       reportService
	MemberSvc       memberService
	UserSvc         userService
	ProfileSvc      profileService
	MessageSvc      messageService
	SettingsSvc     settingsService
	DashboardSvc    dashboardService
}
