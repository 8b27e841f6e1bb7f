package i18n

var defaultTranslations = Translations{
	English: {
		// form validation
		"form.name_required":  "Please enter your name.",
		"form.email_invalid":  "Please enter a valid email.",
		"form.mobile_invalid": "Please enter a valid 10-digit mobile number.",

		// OTP request / verify
		"otp.sending":       "Sending OTP...",
		"otp.sent":          "OTP sent successfully! Please enter it below.",
		"otp.cooldown":      "OTP already sent. Please wait before requesting again.",
		"otp.send_failed":   "OTP Send Failed: %s",
		"otp.verifying":     "Verifying OTP...",
		"otp.verified":      "OTP Verified",
		"otp.length":        "Please enter the 6-digit OTP.",
		"otp.request_first": "Please request an OTP first.",
		"otp.verify_failed": "Verification Failed: %s",

		// submit
		"submit.agree_required": "Please agree to the terms.",
		"submit.verify_first":   "Please verify OTP first.",
		"submit.submitting":     "Submitting Data...",
		"submit.redirecting":    "%s Redirecting...",
		"submit.failed":         "Submission Failed: %s",

		// remote endpoint
		"remote.rejected":         "Error: %s",
		"remote.http_status":      "HTTP %d",
		"remote.invalid_response": "Server returned invalid response",
		"remote.unavailable":      "Service temporarily unavailable",

		"request.too_many": "Too many requests. Please try again shortly.",

		// downloads
		"download.sample_certificate": "Sample certificate download started!",
		"download.portfolio_guide":    "Portfolio guide download started!",

		// page
		"page.title":             "Data Science Program | SkilledUp.Tech",
		"page.headline":          "Become a job-ready Data Scientist",
		"page.subheadline":       "Live mentorship, real projects and a portfolio that gets you hired.",
		"page.enroll":            "Enroll Now",
		"page.testimonials":      "What Our Learners Say",
		"page.prev":              "Previous",
		"page.next":              "Next",
		"page.resources":         "Free Resources",
		"page.download_sample":   "Download Sample Certificate",
		"page.download_guide":    "Download Portfolio Guide",
		"page.form_title":        "Get Program Details",
		"page.back_to_top":       "Back to top",
		"page.linkedin":          "Follow us on LinkedIn",
		"form.name":              "Full Name",
		"form.email":             "Email Address",
		"form.mobile":            "Mobile Number",
		"form.get_otp":           "Get OTP",
		"form.otp":               "Enter OTP",
		"form.otp_sent":          "OTP sent to your mobile number",
		"form.otp_verified":      "Mobile number verified",
		"form.verify":            "Verify",
		"form.course":            "Course",
		"form.city":              "City",
		"form.background":        "Background",
		"form.mode":              "Preferred Mode",
		"form.mode_online":       "Online",
		"form.mode_offline":      "Offline",
		"form.background_fresh":  "Student / Fresher",
		"form.background_worker": "Working Professional",
		"form.agree":             "I agree to the terms and conditions",
		"form.submit":            "Submit",

		// acknowledgement email
		"email.ack.subject":      "Thanks for contacting %s",
		"email.ack.intro":        "Thank you for your interest in %s. Our counsellors will call you shortly.",
		"email.ack.details":      "Here is what you shared with us:",
		"email.ack.instructions": "Meanwhile, explore the programs:",
		"email.ack.button":       "Browse courses",
		"email.ack.outro":        "If you did not fill in this form, you can ignore this email.",

		// sales alert
		"alert.new_lead": "New lead from %s",
	},
	Hindi: {
		"form.name_required":  "कृपया अपना नाम दर्ज करें।",
		"form.email_invalid":  "कृपया एक मान्य ईमेल दर्ज करें।",
		"form.mobile_invalid": "कृपया एक मान्य 10-अंकों का मोबाइल नंबर दर्ज करें।",

		"otp.sending":       "OTP भेजा जा रहा है...",
		"otp.sent":          "OTP सफलतापूर्वक भेजा गया! कृपया इसे नीचे दर्ज करें।",
		"otp.cooldown":      "OTP पहले ही भेजा जा चुका है। दोबारा अनुरोध करने से पहले कृपया प्रतीक्षा करें।",
		"otp.send_failed":   "OTP भेजना विफल: %s",
		"otp.verifying":     "OTP सत्यापित किया जा रहा है...",
		"otp.verified":      "OTP सत्यापित",
		"otp.length":        "कृपया 6-अंकों का OTP दर्ज करें।",
		"otp.request_first": "कृपया पहले OTP का अनुरोध करें।",
		"otp.verify_failed": "सत्यापन विफल: %s",

		"submit.agree_required": "कृपया शर्तों से सहमत हों।",
		"submit.verify_first":   "कृपया पहले OTP सत्यापित करें।",
		"submit.submitting":     "डेटा सबमिट किया जा रहा है...",
		"submit.redirecting":    "%s रीडायरेक्ट किया जा रहा है...",
		"submit.failed":         "सबमिशन विफल: %s",

		"remote.rejected":         "त्रुटि: %s",
		"remote.invalid_response": "सर्वर ने अमान्य प्रतिक्रिया लौटाई",
		"remote.unavailable":      "सेवा अस्थायी रूप से अनुपलब्ध है",

		"request.too_many": "बहुत अधिक अनुरोध। कृपया थोड़ी देर बाद पुनः प्रयास करें।",

		"download.sample_certificate": "नमूना प्रमाणपत्र डाउनलोड शुरू हो गया!",
		"download.portfolio_guide":    "पोर्टफोलियो गाइड डाउनलोड शुरू हो गया!",

		"page.enroll":          "अभी नामांकन करें",
		"page.testimonials":    "हमारे शिक्षार्थी क्या कहते हैं",
		"page.prev":            "पिछला",
		"page.next":            "अगला",
		"page.resources":       "मुफ़्त संसाधन",
		"page.download_sample": "नमूना प्रमाणपत्र डाउनलोड करें",
		"page.download_guide":  "पोर्टफोलियो गाइड डाउनलोड करें",
		"page.form_title":      "प्रोग्राम की जानकारी पाएं",
		"page.back_to_top":     "ऊपर जाएं",
		"form.name":            "पूरा नाम",
		"form.email":           "ईमेल पता",
		"form.mobile":          "मोबाइल नंबर",
		"form.get_otp":         "OTP पाएं",
		"form.otp":             "OTP दर्ज करें",
		"form.otp_sent":        "OTP आपके मोबाइल नंबर पर भेजा गया",
		"form.otp_verified":    "मोबाइल नंबर सत्यापित",
		"form.verify":          "सत्यापित करें",
		"form.course":          "कोर्स",
		"form.city":            "शहर",
		"form.background":      "पृष्ठभूमि",
		"form.mode":            "पसंदीदा माध्यम",
		"form.agree":           "मैं नियमों और शर्तों से सहमत हूँ",
		"form.submit":          "सबमिट करें",

		"email.ack.subject":      "%s से संपर्क करने के लिए धन्यवाद",
		"email.ack.intro":        "%s में आपकी रुचि के लिए धन्यवाद। हमारे काउंसलर जल्द ही आपको कॉल करेंगे।",
		"email.ack.details":      "आपने हमारे साथ यह जानकारी साझा की:",
		"email.ack.instructions": "तब तक, प्रोग्राम देखें:",
		"email.ack.button":       "कोर्स देखें",
		"email.ack.outro":        "यदि आपने यह फ़ॉर्म नहीं भरा है, तो इस ईमेल को अनदेखा करें।",
	},
}
