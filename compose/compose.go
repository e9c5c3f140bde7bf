// Package compose draws one certificate composite: bordered frame, title
// block, fitted recipient name, bilingual body text, signature footer and an
// ID-card sub-composite with photo and machine-readable code. Every call
// redraws a fresh canvas from a blank background; there is no partial
// composition.
package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/tdewolff/canvas"

	"github.com/aikaryashala/patram/binding"
	"github.com/aikaryashala/patram/fit"
	"github.com/aikaryashala/patram/langpack"
	"github.com/aikaryashala/patram/records"
)

// DefaultBaseURL is the production base for shareable certificate URLs.
const DefaultBaseURL = "https://aikaryashala.com/certificates/bootcamp/kiet"

// Page dimensions: A4 landscape in mm (3508x2480 px at 300 DPI).
const (
	PageWidth  = 297.0
	PageHeight = 210.0
)

// Fixed layout anchors (mm). The text column is centered left of the ID
// card; the card occupies the right-hand side and is drawn last.
const (
	outerMargin = 8.0
	innerInset  = 3.0

	idAnchorX = 283.0
	idAnchorY = 17.0

	contentCX    = 110.0
	titleTop     = 32.0
	subtitleTop  = 48.0
	subtitleGap  = 7.0
	nameAnchorY  = 92.0
	nameMaxWidth = 170.0
	bodyTop      = 120.0
	bodyGap      = 7.5

	dateCX        = 48.0
	dateBaseline  = 181.0
	dateRuleWidth = 34.0
	dateLabelGap  = 3.0

	signRightX     = 283.0
	signSigBottom  = 178.0
	signSigMaxW    = 42.0
	signSigMaxH    = 20.0
	signNameOffset = 6.5
	signRoleOffset = 12.5

	cardX, cardY = 213.0, 42.0
	cardW, cardH = 68.0, 110.0
	cardRadius   = 3.0
	cardStripH   = 12.0
	slotW, slotH = 40.0, 50.0
	slotTop      = 17.0
	cardNameY    = 78.0
	cardNameMaxW = 58.0
	qrSizeMM     = 22.0
	qrInset      = 4.0
	qrPixels     = 330
)

var (
	colorPaper  = canvas.Hex("#fdfcf7")
	colorInk    = canvas.Hex("#1a1a2e")
	colorNavy   = canvas.Hex("#16325c")
	colorGold   = canvas.Hex("#c9a227")
	colorMuted  = canvas.Hex("#555555")
	colorShadow = canvas.RGBA(0, 0, 0, 0.18)
	noFill      = color.RGBA{0, 0, 0, 0}
)

// Fitting bounds for the two fitted text blocks. The card block forces
// wrapping earlier because it is much narrower.
var (
	nameFitSpec = fit.Spec{MaxWidth: nameMaxWidth, StartSize: 30, MinSize: 16, MultilineThreshold: 19}
	cardFitSpec = fit.Spec{MaxWidth: cardNameMaxW, StartSize: 13, MinSize: 8, MultilineThreshold: 15}
)

// Job is one composition request: a recipient, the language to render, and
// the resolved photo bytes. It is owned by a single Compose call.
type Job struct {
	Recipient  records.Recipient
	Pack       *langpack.Pack
	PhotoBytes []byte
}

// Warning records a degraded optional sub-element. Missing assets never
// abort a composition; they are reported here instead.
type Warning struct {
	Element string
	Err     error
}

func (w Warning) String() string { return w.Element + ": " + w.Err.Error() }

// Options configures a Composer.
type Options struct {
	// Fonts maps roles (regular/bold/telugu) to font file resources.
	Fonts map[string]Resource
	// Signature is the optional signature image for the footer.
	Signature Resource
	// BaseURL overrides DefaultBaseURL for the machine-readable code.
	BaseURL string
}

// Composer renders certificate composites. A Composer is not safe for
// concurrent Compose calls; the exporter serializes them.
type Composer struct {
	families  map[string]*canvas.FontFamily
	signature image.Image
	sigErr    error
	baseURL   string
}

// New loads fonts and the signature image eagerly. A missing or unparsable
// regular font is an error; the signature degrades per composition instead.
func New(opts Options) (*Composer, error) {
	families, err := loadFamilies(opts.Fonts)
	if err != nil {
		return nil, err
	}
	c := &Composer{families: families, baseURL: opts.BaseURL}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if opts.Signature.empty() {
		c.sigErr = fmt.Errorf("no signature image configured")
	} else if data, err := opts.Signature.load(); err != nil {
		c.sigErr = fmt.Errorf("loading signature image: %w", err)
	} else if img, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		c.sigErr = fmt.Errorf("decoding signature image: %w", err)
	} else {
		c.signature = img
	}
	return c, nil
}

// Compose draws the full composite for one job onto a fresh canvas. The
// stage order is fixed; later stages may paint over earlier ones, never the
// reverse. Optional-asset failures are returned as warnings alongside a
// still-valid surface.
func (c *Composer) Compose(job Job) (*canvas.Canvas, []Warning, error) {
	if job.Pack == nil {
		return nil, nil, fmt.Errorf("compose: job has no language pack")
	}
	surface := canvas.New(PageWidth, PageHeight)
	ctx := canvas.NewContext(surface)
	ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the layout

	var warnings []Warning
	c.drawFrame(ctx)
	c.drawIdentifier(ctx, job)
	c.drawTitle(ctx, job.Pack)
	c.drawName(ctx, job)
	c.drawBody(ctx, job.Pack)
	warnings = append(warnings, c.drawFooter(ctx, job.Pack)...)
	warnings = append(warnings, c.drawCard(ctx, job)...)
	return surface, warnings, nil
}

// Stage 1: background plus two nested borders.
func (c *Composer) drawFrame(ctx *canvas.Context) {
	ctx.SetFillColor(colorPaper)
	ctx.SetStrokeColor(noFill)
	ctx.DrawPath(0, 0, canvas.Rectangle(PageWidth, PageHeight))

	ctx.SetFillColor(noFill)
	ctx.SetStrokeColor(colorNavy)
	ctx.SetStrokeWidth(1.2)
	ctx.DrawPath(outerMargin, outerMargin,
		canvas.Rectangle(PageWidth-2*outerMargin, PageHeight-2*outerMargin))

	ctx.SetStrokeColor(colorGold)
	ctx.SetStrokeWidth(0.4)
	inset := outerMargin + innerInset
	ctx.DrawPath(inset, inset,
		canvas.Rectangle(PageWidth-2*inset, PageHeight-2*inset))
}

// Stage 2: certificate identifier, right-aligned at a fixed anchor. The
// label is localized, the value is not.
func (c *Composer) drawIdentifier(ctx *canvas.Context, job Job) {
	text := binding.Interpolate(job.Pack.Label("certificate-id"),
		map[string]string{"id": job.Recipient.ID})
	face := c.face(labelRole(job.Pack), 9, colorMuted)
	ctx.DrawText(idAnchorX, idAnchorY+face.Metrics().Ascent,
		canvas.NewTextLine(face, text, canvas.Right))
}

// Stage 3: centered title with a measured underline, then subtitle lines.
func (c *Composer) drawTitle(ctx *canvas.Context, pack *langpack.Pack) {
	title := pack.Label("title")
	face := c.face(titleRole(pack), 22, colorNavy)
	ctx.DrawText(contentCX, titleTop+face.Metrics().Ascent,
		canvas.NewTextLine(face, title, canvas.Center))

	ruleW := face.TextWidth(title) + 4
	drawRule(ctx, contentCX-ruleW/2, titleTop+face.Metrics().LineHeight+1.5, ruleW, 0.8, colorGold)

	subFace := c.face(labelRole(pack), 11, colorNavy)
	ctx.DrawText(contentCX, subtitleTop+subFace.Metrics().Ascent,
		canvas.NewTextLine(subFace, pack.Label("subtitle-1"), canvas.Center))
	sub2Face := c.face(labelRole(pack), 10, colorMuted)
	ctx.DrawText(contentCX, subtitleTop+subtitleGap+sub2Face.Metrics().Ascent,
		canvas.NewTextLine(sub2Face, pack.Label("subtitle-2"), canvas.Center))
}

// Stage 4: the recipient name block. The fitted lines are centered as a
// group around the fixed anchor, each line individually underlined.
func (c *Composer) drawName(ctx *canvas.Context, job Job) {
	text, role := nameTextRole(job)
	res := fit.Fit(c.measurer(role), text, nameFitSpec)

	var total float64
	for _, ln := range res.Lines {
		total += lineAdvance(ln.FontSize)
	}
	y := nameAnchorY - total/2
	for _, ln := range res.Lines {
		face := c.face(role, ln.FontSize, colorInk)
		baseline := y + face.Metrics().Ascent
		ctx.DrawText(contentCX, baseline, canvas.NewTextLine(face, ln.Content, canvas.Center))
		ruleW := ln.Width + 6
		drawRule(ctx, contentCX-ruleW/2, baseline+2, ruleW, 0.5, colorGold)
		y += lineAdvance(ln.FontSize)
	}
}

// Stage 5: the body paragraph. The split location/date pair collapses into
// one merged line for packs that declare it (intentional per-language
// layout variance).
func (c *Composer) drawBody(ctx *canvas.Context, pack *langpack.Pack) {
	lines := []string{pack.Label("body-1"), pack.Label("body-2")}
	if pack.MergesLocation() {
		lines = append(lines, pack.Label("body-location-merged"))
	} else {
		lines = append(lines, pack.Label("body-location"), pack.Label("body-date"))
	}
	face := c.face(labelRole(pack), 10, colorInk)
	y := bodyTop
	for _, line := range lines {
		ctx.DrawText(contentCX, y+face.Metrics().Ascent,
			canvas.NewTextLine(face, line, canvas.Center))
		y += bodyGap
	}
}

// Stage 6: footer. Left: date over a short rule with its label below.
// Right: signature image, signer name and role, all centered on a block
// derived from the measured role width, so the anchor shifts with label
// length.
func (c *Composer) drawFooter(ctx *canvas.Context, pack *langpack.Pack) []Warning {
	var warnings []Warning

	dateFace := c.face(RoleRegular, 10, colorInk)
	ctx.DrawText(dateCX, dateBaseline, canvas.NewTextLine(dateFace, pack.Label("date-value"), canvas.Center))
	drawRule(ctx, dateCX-dateRuleWidth/2, dateBaseline+2, dateRuleWidth, 0.4, colorInk)
	labelFace := c.face(labelRole(pack), 8.5, colorMuted)
	ctx.DrawText(dateCX, dateBaseline+dateLabelGap+labelFace.Metrics().Ascent,
		canvas.NewTextLine(labelFace, pack.Label("date-label"), canvas.Center))

	roleFace := c.face(labelRole(pack), 8.5, colorMuted)
	roleText := pack.Label("signer-role")
	blockCX := signRightX - roleFace.TextWidth(roleText)/2

	if c.signature != nil {
		w, h := scaleToFit(c.signature.Bounds().Dx(), c.signature.Bounds().Dy(), signSigMaxW, signSigMaxH)
		dpmm := float64(c.signature.Bounds().Dx()) / w
		ctx.DrawImage(blockCX-w/2, signSigBottom-h, c.signature, canvas.DPMM(dpmm))
	} else {
		warnings = append(warnings, Warning{Element: "signature", Err: c.sigErr})
	}

	nameFace := c.face(labelRole(pack), 10, colorInk)
	ctx.DrawText(blockCX, signSigBottom+signNameOffset,
		canvas.NewTextLine(nameFace, pack.Label("signer-name"), canvas.Center))
	ctx.DrawText(blockCX, signSigBottom+signRoleOffset,
		canvas.NewTextLine(roleFace, roleText, canvas.Center))
	return warnings
}

// Stage 7: the ID-card sub-composite.
func (c *Composer) drawCard(ctx *canvas.Context, job Job) []Warning {
	var warnings []Warning
	cardCX := cardX + cardW/2

	// drop shadow, then the card body
	ctx.SetFillColor(colorShadow)
	ctx.SetStrokeColor(noFill)
	ctx.DrawPath(cardX+1.5, cardY+1.5, canvas.RoundedRectangle(cardW, cardH, cardRadius))
	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(colorNavy)
	ctx.SetStrokeWidth(0.5)
	ctx.DrawPath(cardX, cardY, canvas.RoundedRectangle(cardW, cardH, cardRadius))

	// header strip; the lower half is squared off over the rounded corners
	ctx.SetFillColor(colorNavy)
	ctx.SetStrokeColor(noFill)
	ctx.DrawPath(cardX, cardY, canvas.RoundedRectangle(cardW, cardStripH, cardRadius))
	ctx.DrawPath(cardX, cardY+cardStripH/2, canvas.Rectangle(cardW, cardStripH/2))
	headerFace := c.face(labelRole(job.Pack), 7.5, canvas.White)
	ctx.DrawText(cardCX, cardY+(cardStripH-headerFace.Metrics().LineHeight)/2+headerFace.Metrics().Ascent,
		canvas.NewTextLine(headerFace, job.Pack.Label("card-header"), canvas.Center))

	// bordered photo slot; left blank when the photo cannot be decoded
	slotX := cardX + (cardW-slotW)/2
	slotY := cardY + slotTop
	ctx.SetFillColor(noFill)
	ctx.SetStrokeColor(colorNavy)
	ctx.SetStrokeWidth(0.4)
	ctx.DrawPath(slotX, slotY, canvas.Rectangle(slotW, slotH))
	if len(job.PhotoBytes) == 0 {
		warnings = append(warnings, Warning{Element: "photo", Err: fmt.Errorf("no photo bytes for %s", job.Recipient.ID)})
	} else if photo, err := imaging.Decode(bytes.NewReader(job.PhotoBytes)); err != nil {
		warnings = append(warnings, Warning{Element: "photo", Err: fmt.Errorf("decoding photo for %s: %w", job.Recipient.ID, err)})
	} else {
		const slotPxW, slotPxH = 472, 590 // slot at ~300 DPI
		filled := imaging.Fill(photo, slotPxW, slotPxH, imaging.Center, imaging.Lanczos)
		ctx.DrawImage(slotX, slotY, filled, canvas.DPMM(float64(slotPxW)/slotW))
	}

	// card name reuses the fitting strategy against the narrower width
	text, role := nameTextRole(job)
	res := fit.Fit(c.measurer(role), text, cardFitSpec)
	y := cardY + cardNameY
	for _, ln := range res.Lines {
		face := c.face(role, ln.FontSize, colorInk)
		ctx.DrawText(cardCX, y+face.Metrics().Ascent, canvas.NewTextLine(face, ln.Content, canvas.Center))
		y += lineAdvance(ln.FontSize)
	}

	// identifier, small, above the card's bottom-left corner
	idFace := c.face(RoleRegular, 6.5, colorMuted)
	ctx.DrawText(cardX+qrInset, cardY+cardH-qrInset,
		canvas.NewTextLine(idFace, job.Recipient.ID, canvas.Left))

	// machine-readable code in the reserved bottom-right square
	url := records.ShareURL(c.baseURL, job.Recipient.ID)
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		warnings = append(warnings, Warning{Element: "qr", Err: fmt.Errorf("encoding %s: %w", url, err)})
		return warnings
	}
	code.DisableBorder = true
	qrX := cardX + cardW - qrSizeMM - qrInset
	qrY := cardY + cardH - qrSizeMM - qrInset
	ctx.DrawImage(qrX, qrY, code.Image(qrPixels), canvas.DPMM(float64(qrPixels)/qrSizeMM))
	return warnings
}

// drawRule draws a horizontal rule of the given width starting at (x, y).
func drawRule(ctx *canvas.Context, x, y, w, thickness float64, col color.Color) {
	ctx.SetStrokeColor(col)
	ctx.SetStrokeWidth(thickness)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(w, 0)
	ctx.DrawPath(x, y, p)
}

// nameTextRole picks the name text and font role for the job's language:
// the secondary-language pass renders the secondary name in the pack's own
// font, everything else renders the upper-cased display name in bold.
func nameTextRole(job Job) (string, string) {
	pack := job.Pack
	if pack.FontRole != "" && pack.FontRole != RoleRegular && job.Recipient.SecondaryName != "" {
		return strings.ToUpper(job.Recipient.SecondaryName), pack.FontRole
	}
	return strings.ToUpper(job.Recipient.DisplayName), RoleBold
}

// labelRole resolves the font role for a pack's localized labels.
func labelRole(pack *langpack.Pack) string {
	if pack.FontRole == "" {
		return RoleRegular
	}
	return pack.FontRole
}

// titleRole prefers the bold face for Latin-script packs.
func titleRole(pack *langpack.Pack) string {
	if role := labelRole(pack); role != RoleRegular {
		return role
	}
	return RoleBold
}

// lineAdvance is the vertical advance for one fitted line at sizePt.
func lineAdvance(sizePt float64) float64 { return sizePt * PtToMm * 1.35 }

// scaleToFit shrinks (w, h) proportionally so it fits within (maxW, maxH);
// it never scales up.
func scaleToFit(w, h int, maxW, maxH float64) (float64, float64) {
	fw, fh := float64(w), float64(h)
	if fw <= 0 || fh <= 0 {
		return maxW, maxH
	}
	scale := maxW / fw
	if s := maxH / fh; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return fw * scale, fh * scale
}
