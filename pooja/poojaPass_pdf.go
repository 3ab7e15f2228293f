package pooja

import "sevabook/pass"

func renderPassPDF(view PassView, qrPayload, logoPath string) ([]byte, error) {
	rows := [][2]string{
		{"Booking ID", view.ID},
		{"Name", view.Name},
		{"Email", view.Email},
		{"Phone", view.Phone},
		{"Date", view.Date},
		{"Session", view.Session},
		{"Nakshatram", view.Nakshatram},
		{"Gothram", view.Gothram},
		{"Status", view.Status},
	}
	return pass.RenderPDF(pass.Document{
		Title:     "Pooja Pass",
		Subtitle:  view.Date + "  |  " + view.Session,
		Rows:      rows,
		QRPayload: qrPayload,
		LogoPath:  logoPath,
	})
}
