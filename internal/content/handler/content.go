package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	httputil "github.com/MuhammadFeyaz/go2koereskole/pkg/http"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/logger"
)

type AboutContent struct {
	Title string `json:"title"`
	P1    string `json:"p1"`
	P2    string `json:"p2"`
	P3    string `json:"p3"`
}

// aboutContent is served as-is per language; "da" is the fallback for any
// unknown lang value.
var aboutContent = map[string]AboutContent{
	"da": {
		Title: "Om Go2 Køreskole i København",
		P1:    "Velkommen hos Go2 Køreskole i København! Mit navn er Karim, og jeg er ejer af køreskolen – så det er dermed mig, du kommer til at få som kørelærer.",
		P2:    "Jeg er oprindeligt uddannet socialrådgiver, men har sidenhen valgt at skifte spor og få en levevej i køreskolebranchen.",
		P3:    "Jeg har god empati og er god til at håndtere elevers individuelle problemer, så de får en så god proces som mulig. Jeg tager mit arbejde seriøst, men ønsker samtidig, at det skal være en sjov og lærerig proces at få kørekort!",
	},
	"en": {
		Title: "About Go2 Driving School in Copenhagen",
		P1:    "Welcome to Go2 Driving School in Copenhagen! My name is Karim, and I’m the owner of the school—so I’ll be your driving instructor.",
		P2:    "I originally trained as a social worker, but later chose to change direction and build my career in the driving school industry.",
		P3:    "I’m empathetic and good at handling students’ individual challenges, so you get the best possible learning process. I take my work seriously, but I also want getting your license to be fun and educational!",
	},
}

type ContentHandler struct {
	locations []string
	log       *logger.Logger
}

func NewContentHandler(locations []string, log *logger.Logger) *ContentHandler {
	return &ContentHandler{
		locations: locations,
		log:       log,
	}
}

func (h *ContentHandler) About(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lang := strings.ToLower(r.URL.Query().Get("lang"))
	content, ok := aboutContent[lang]
	if !ok {
		content = aboutContent["da"]
	}

	if err := httputil.WriteJSON(w, http.StatusOK, content); err != nil {
		h.log.Error("failed to write response", "handler", "About", "error", err)
	}
}

func (h *ContentHandler) Locations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.locations); err != nil {
		h.log.Error("failed to write response", "handler", "Locations", "error", err)
	}
}

func (h *ContentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/content/about", h.About)
	router.GET("/api/v1/locations", h.Locations)
}
