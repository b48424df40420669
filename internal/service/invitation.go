package service

import (
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"github.com/skip2/go-qrcode"

	"undangan/rsvphub/internal/config"
	"undangan/rsvphub/internal/model"
)

const qrSize = 320

// Invitations renders invitation links, WhatsApp texts and QR codes for the event.
type Invitations struct {
	event   config.EventConfig
	baseURL string
}

func NewInvitations(event config.EventConfig, invite config.InviteConfig) *Invitations {
	return &Invitations{event: event, baseURL: strings.TrimRight(invite.BaseURL, "/")}
}

// URL builds <base>/invitation?token=<token>. A configured base URL wins over origin.
func (i *Invitations) URL(origin, token string) string {
	base := i.baseURL
	if base == "" {
		base = strings.TrimRight(origin, "/")
	}
	return fmt.Sprintf("%s/invitation?token=%s", base, url.QueryEscape(token))
}

type messageData struct {
	Nama      string
	Komunitas string
	InviteURL string
	Event     config.EventConfig
}

var (
	hadirTmpl = template.Must(template.New("hadir").Parse(`🎉 *Bismillah. Halo, {{.Nama}}!*

{{.Event.WAIntro}}

Alhamdulillah, kami dengan senang hati mengonfirmasi pendaftaran Anda! 🙏

Anda resmi terdaftar sebagai *tamu undangan* acara:

✨ *{{.Event.Nama}}*
🏢 {{.Event.Organisasi}}

📅 *Tanggal* : {{.Event.Tanggal}}
⏰ *Waktu*   : {{.Event.Waktu}}
📍 *Lokasi*  : {{.Event.Lokasi}}
👔 *Dresscode*: *{{.Event.Dresscode}}*

🎟️ *Undangan Digital Anda:*
{{.InviteURL}}

Simpan link di atas — tunjukkan kepada panitia saat hadir untuk proses check-in yang cepat & mudah. Jangan lupa datang tepat waktu ya! 😊

_Sampai jumpa di acara!_ 🚗✨

Salam, {{.Event.WAIntro}}
*{{.Event.Contact}}*`))

	tidakHadirTmpl = template.Must(template.New("tidak_hadir").Parse(`😊 *Halo, {{.Nama}}!*

{{.Event.WAIntro}}

Terima kasih sudah meluangkan waktu untuk merespons undangan kami. Kami sangat menghargainya! 🙏

Kami mencatat bahwa Anda *tidak dapat hadir* pada acara:

✨ *{{.Event.Nama}}*
🏢 {{.Event.Organisasi}}
📅 {{.Event.Tanggal}} · {{.Event.Waktu}}
📍 {{.Event.Lokasi}}

Semoga di lain kesempatan kita bisa bertemu. Jika ada perubahan rencana, tidak ada salahnya hadir mendadak — kami selalu senang! 😄

Salam, {{.Event.WAIntro}}
*{{.Event.Contact}}*`))
)

// Message renders the confirmation text. Only the Hadir text carries the link.
func (i *Invitations) Message(nama, komunitas string, status model.RSVPStatus, inviteURL string) (string, error) {
	tmpl := tidakHadirTmpl
	if status == model.StatusHadir {
		tmpl = hadirTmpl
	}

	var sb strings.Builder
	err := tmpl.Execute(&sb, messageData{
		Nama:      nama,
		Komunitas: komunitas,
		InviteURL: inviteURL,
		Event:     i.event,
	})
	if err != nil {
		return "", fmt.Errorf("render %s message: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}

// QR encodes the invitation URL as a PNG for printing or screen display.
func (i *Invitations) QR(inviteURL string) ([]byte, error) {
	png, err := qrcode.Encode(inviteURL, qrcode.High, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
