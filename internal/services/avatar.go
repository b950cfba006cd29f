package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
)

const (
	avatarSize     = 512
	avatarFontSize = 206
)

// avatarPalette backs the generated initials avatars. The colour is
// picked by hashing the user id so re-rendering the same user is
// stable.
var avatarPalette = []color.NRGBA{
	{R: 0x2f, G: 0x6f, B: 0xed, A: 0xff},
	{R: 0x12, G: 0x8a, B: 0x6b, A: 0xff},
	{R: 0xc2, G: 0x41, B: 0x4b, A: 0xff},
	{R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
	{R: 0xd8, G: 0x77, B: 0x1a, A: 0xff},
	{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff},
	{R: 0x0e, G: 0x74, B: 0x90, A: 0xff},
	{R: 0x6d, G: 0x4c, B: 0x41, A: 0xff},
}

// AvatarService renders a default profile image for users who did not
// upload one. The PNG is kept on the user row as a base64 column so
// serving it needs no blob store.
type AvatarService interface {
	GenerateUserAvatar(user *types.User) (*bytes.Buffer, error)
	AttachGeneratedAvatar(user *types.User) error
}

type avatarService struct {
	fontData []byte
	log      *logger.Logger
}

// NewAvatarService loads the avatar font once. AVATAR_FONT may point
// at an alternative TTF; the embedded Go Regular face is the default.
func NewAvatarService(baseLog *logger.Logger) (AvatarService, error) {
	log := baseLog.With("service", "AvatarService")
	fontData := goregular.TTF
	if path := os.Getenv("AVATAR_FONT"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read avatar font %q: %w", path, err)
		}
		fontData = data
	}
	if _, err := truetype.Parse(fontData); err != nil {
		return nil, fmt.Errorf("failed to parse avatar font: %w", err)
	}
	return &avatarService{fontData: fontData, log: log}, nil
}

// GenerateUserAvatar draws the user's initials on a coloured disc and
// returns the encoded PNG.
func (as *avatarService) GenerateUserAvatar(user *types.User) (*bytes.Buffer, error) {
	if user == nil {
		return nil, fmt.Errorf("user is required")
	}
	initials := extractInitials(user.FirstName, user.LastName)
	bg := pickAvatarColor(user.ID.String())

	parsed, err := truetype.Parse(as.fontData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse avatar font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{
		Size:    avatarFontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Clip()
	dc.SetColor(bg)
	dc.Clear()

	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials, avatarSize/2, avatarSize/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode avatar png: %w", err)
	}
	return &buf, nil
}

// AttachGeneratedAvatar renders and stores the avatar on the user
// record in place. The caller persists the row.
func (as *avatarService) AttachGeneratedAvatar(user *types.User) error {
	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}
	user.Avatar = base64.StdEncoding.EncodeToString(buf.Bytes())
	user.AvatarType = "image/png"
	as.log.Debug("Generated default avatar", "user_id", user.ID, "bytes", buf.Len())
	return nil
}

func extractInitials(firstName, lastName string) string {
	var b strings.Builder
	for _, name := range []string{firstName, lastName} {
		for _, r := range strings.TrimSpace(name) {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func pickAvatarColor(seed string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return avatarPalette[int(h.Sum32())%len(avatarPalette)]
}
