package tui

import (
	"fmt"
	"strings"
)

const version = "1.0"

var howItWorks = []struct{ title, desc string }{
	{"Image Processing", "Your image is checked and its key features such as texture, color patterns and leaf structure are extracted."},
	{"Pattern Analysis", "The leaf is compared against the disease patterns known for the selected crop."},
	{"Disease Classification", "The condition is classified and the cause, symptoms and recommended treatments are shown."},
}

var photoTips = []struct{ title, desc string }{
	{"Good Lighting", "Capture images in natural daylight for best color accuracy"},
	{"Clear Focus", "Ensure the leaf is in sharp focus without blur"},
	{"Proper Distance", "Fill the frame with the leaf, not too close or far"},
	{"Show Symptoms", "Include visible disease symptoms in the image"},
	{"Single Leaf", "Focus on one leaf at a time for accurate results"},
	{"Dry Surface", "Avoid wet leaves as water droplets may affect analysis"},
}

var technology = []struct{ title, desc string }{
	{"Machine Learning", "Models trained on extensive disease datasets"},
	{"Computer Vision", "Pattern recognition and image analysis algorithms"},
	{"Data Science", "Evidence-based recommendations from agricultural research"},
}

const disclaimer = "Results are for guidance purposes only and do not replace professional " +
	"agricultural advice. Verify them with a certified agricultural expert or plant " +
	"pathologist before taking any major treatment action."

func renderAbout(m model) string {
	var b strings.Builder
	b.WriteString(titleStyle("About CropCare AI") + "\n\n")

	b.WriteString(headingStyle.Render("How Our AI Works") + "\n")
	for i, step := range howItWorks {
		b.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, step.title, step.desc))
	}

	b.WriteString("\n" + headingStyle.Render("Tips for Best Results") + "\n")
	for _, tip := range photoTips {
		b.WriteString(fmt.Sprintf("• %s: %s\n", tip.title, tip.desc))
	}

	b.WriteString("\n" + headingStyle.Render("Our Technology") + "\n")
	for _, tech := range technology {
		b.WriteString(fmt.Sprintf("• %s: %s\n", tech.title, tech.desc))
	}

	b.WriteString("\n" + warningCardStyle.Render("Important Disclaimer\n"+disclaimer) + "\n")

	if centers := m.app.Centers(); len(centers) > 0 {
		b.WriteString("\n" + headingStyle.Render("Agri-Service Centers") + "\n")
		for _, c := range centers {
			line := fmt.Sprintf("• %s", c.Name)
			if c.Region != "" {
				line += " (" + c.Region + ")"
			}
			if c.Phone != "" {
				line += " " + c.Phone
			}
			if len(c.Services) > 0 {
				line += ": " + strings.Join(c.Services, ", ")
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n" + statusStyle.Render("CropCare AI v"+version+" | Built for farmers") + "\n")
	b.WriteString(statusStyle.Render("esc: back"))
	return b.String()
}
