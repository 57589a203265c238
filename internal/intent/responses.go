package intent

// Canned clinic answers. Leading spaces are part of the texts.
const (
	GreetingText = " Hello! Welcome to **Elite Body Home Polyclinic**.\n\n" +
		"How can I help you today?\n" +
		"• Treatments & services\n" +
		"• Working hours\n" +
		"• Location & contact details\n" +
		"• Book an appointment"

	AboutText = " **Elite Body Home Polyclinic** is a beauty and wellness clinic based in Dubai.\n\n" +
		"We provide high-quality, non-invasive aesthetic and medical wellness treatments " +
		"delivered by experienced, DHA-certified doctors in a welcoming environment.\n\n" +
		"We focus on personalized care using advanced technology and ISO international " +
		"quality standards."

	HoursText = " **Working Hours:** Monday to Sunday, 9:00 AM to 9:00 PM."

	LocationText = "**Our Location:**\n" +
		"2nd December Street, Jumeirah 1,\n" +
		"Al Hudaiba Awards Buildings Block B,\n" +
		"1st Floor, Dubai."

	ContactText = " **Contact Information:**\n" +
		"Email: contact@elitebodyhome.com\n" +
		"Phone: +971 55 120 0086\n" +
		"Phone: +971 4 547 9492"

	TreatmentsText = " **Services & Treatments at Elite Body Home**\n\n" +
		"We offer a wide range of non-surgical aesthetic and wellness treatments:\n" +
		"- Body sculpting\n" +
		"- Cryolipolysis (non-invasive fat freezing)\n" +
		"- Aqualyx fat dissolving treatment\n" +
		"- Skin tightening\n" +
		"- Cellulite reduction\n" +
		"- Laser treatments\n" +
		"- Dermatology services\n" +
		"- Slimming treatments\n" +
		"- Physiotherapy\n" +
		"- IV therapy\n\n" +
		" **Highlights:**\n" +
		"• Cryolipolysis targets stubborn fat without surgery or downtime.\n" +
		"• Aqualyx eliminates localized fat with minimal downtime."

	NotFoundText = "Sorry, I couldn't find relevant information. Please try asking differently."
)

// Booking prompts, one per step of the booking conversation.
const (
	PromptName      = "Enter your name: "
	PromptTreatment = "Preferred treatment: "
	PromptDate      = "Preferred date: "
	PromptTime      = "Preferred time: "
)
