package routes

import (
	"docnet/authentication"
	"docnet/controllers"
	"docnet/realtime"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	//creates a new Gin engine instance with default configurations
	r := gin.Default()

	//patient routes
	r.POST("/patient/signup", controllers.PatientSignup)
	r.POST("/patient/login", controllers.PatientLogin)
	r.POST("/patient/oauth", controllers.OAuthLogin)
	r.POST("/verify/otp", controllers.UserOtpVerify)
	r.POST("/resend/otp", controllers.ResendOTP)
	r.POST("/forgot/password", controllers.ForgotPassword)
	r.POST("/reset/password", controllers.ResetPassword)

	//public doctor directory
	r.GET("/directory/doctors/:specialization", controllers.GetDoctorsBySpeciality)
	r.GET("/directory/emergency", controllers.GetEmergencyDoctors)
	r.GET("/directory/slots/:doctor_id", controllers.GetAvailableTimeSlots)

	patient := r.Group("/patient")
	patient.Use(authentication.PatientAuthMiddleware())
	{
		patient.GET("/profile", controllers.GetPatientProfile)
		patient.PATCH("/profile", controllers.UpdatePatientProfile)
		patient.GET("/logout", controllers.PatientLogout)

		patient.POST("/book/appointment", controllers.CreateBooking)
		patient.POST("/book/verify", controllers.VerifyBooking)
		patient.POST("/cancel/appointment/:id", controllers.CancelAppointment)
		patient.GET("/appointment/history", controllers.GetAppointmentHistory)

		patient.POST("/emergency/consult", controllers.CreateEmergencyConsultation)
		patient.POST("/emergency/verify", controllers.VerifyEmergencyPayment)
		patient.POST("/emergency/end/:id", controllers.EndEmergencyConsultation)
		patient.GET("/emergency/active", controllers.GetActiveEmergency)

		patient.POST("/chat/room", controllers.GetOrCreateChatRoom)
		patient.GET("/chat/rooms", controllers.ListChatRooms)
		patient.GET("/chat/history/:room_id", controllers.GetChatHistory)
		patient.POST("/chat/send", controllers.SendChatMessage)
		patient.POST("/chat/attachment", controllers.UploadChatAttachment)

		patient.GET("/notifications", controllers.GetNotifications)
		patient.POST("/notifications/:id/read", controllers.MarkNotificationRead)

		patient.GET("/prescriptions", controllers.GetMyPrescriptions)
	}

	//doctor routes
	r.POST("/doctor/signup", controllers.DoctorSignup)
	r.POST("/doctor/login", controllers.DoctorLogin)

	doctor := r.Group("/doctor")
	doctor.Use(authentication.DoctorAuthMiddleware())
	{
		doctor.GET("/profile", controllers.GetDoctorProfile)
		doctor.POST("/profile/photo", controllers.UploadProfilePhoto)
		doctor.GET("/logout", controllers.DoctorLogout)

		doctor.POST("/slots", controllers.CreateSlot)
		doctor.GET("/slots", controllers.ListMySlots)
		doctor.PATCH("/slots/:id", controllers.UpdateSlot)
		doctor.DELETE("/slots/:id", controllers.DeleteSlot)

		doctor.GET("/appointments", controllers.GetDoctorAppointments)
		doctor.POST("/cancel/appointment/:id", controllers.CancelAppointment)
		doctor.POST("/prescription", controllers.AddPrescription)

		doctor.PATCH("/preference/consultation", controllers.UpdateConsultationPreference)
		doctor.PATCH("/preference/emergency", controllers.UpdateEmergencyStatus)
		doctor.POST("/emergency/end/:id", controllers.EndEmergencyConsultation)

		doctor.GET("/wallet", controllers.GetWallet)
		doctor.GET("/wallet/history", controllers.GetWalletHistory)
		doctor.POST("/wallet/withdraw", controllers.RequestWithdrawal)
		doctor.GET("/wallet/withdrawals", controllers.GetWithdrawals)

		doctor.GET("/chat/rooms", controllers.ListChatRooms)
		doctor.GET("/chat/history/:room_id", controllers.GetChatHistory)
		doctor.POST("/chat/send", controllers.SendChatMessage)
		doctor.POST("/chat/attachment", controllers.UploadChatAttachment)

		doctor.GET("/notifications", controllers.GetNotifications)
		doctor.POST("/notifications/:id/read", controllers.MarkNotificationRead)
	}

	//admin routes
	r.POST("/admin/login", controllers.AdminLogin)

	admin := r.Group("/admin")
	admin.Use(authentication.AdminAuthMiddleware())
	{
		admin.POST("/logout", controllers.AdminLogout)
		admin.POST("/approve/doctor/:id", controllers.ApproveDoctor)
		admin.GET("/view/pending/doctors", controllers.ViewPendingDoctors)
		admin.GET("/view/doctors", controllers.ViewDoctors)
		admin.GET("/view/patients", controllers.ViewPatients)
		admin.POST("/user/:id/active", controllers.SetUserActive)
		admin.GET("/view/payments", controllers.ViewPayments)
		admin.GET("/view/emergency/payments", controllers.ViewEmergencyPayments)
		admin.GET("/view/withdrawals", controllers.ViewWithdrawals)
		admin.POST("/withdrawals/:id/run", controllers.RunWithdrawal)

		admin.GET("/total/appointments", controllers.GetBookingStatusCounts)
		admin.GET("/doctor-wise/bookings", controllers.GetDoctorWiseBookings)
		admin.GET("/specialization-wise/bookings", controllers.GetSpecializationWiseBookings)
		admin.GET("/total/revenue", controllers.GetTotalRevenue)
		admin.GET("/revenue/range", controllers.GetRevenueByDateRange)
		admin.GET("/export/revenue/csv", controllers.ExportRevenueCSV)
		admin.GET("/export/revenue/pdf", controllers.ExportRevenuePDF)
	}

	//socket routes carry the token as a query parameter
	r.GET("/ws/call/:room", realtime.CallSocket)
	r.GET("/ws/chat/:room_id", realtime.ChatSocket)
	r.GET("/ws/notifications", realtime.NotificationSocket)

	return r
}
