package core

// landingTemplate is the landing page. Form controls carry formaction
// attributes so every step also works as a plain form post.
const landingTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}" class="no-js">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{call .T "page.title"}}</title>
{{if .View.Redirect}}<meta http-equiv="refresh" content="{{.RedirectSeconds}};url={{.View.Redirect.URL}}">{{end}}
<link rel="stylesheet" href="{{.Paths.CSS}}">
</head>
<body>
<header class="hero" id="top">
	<div class="container">
		{{if .IconURL}}<img src="{{.IconURL}}" alt="{{.ServiceName}}" width="48" height="48">{{end}}
		<h1>{{call .T "page.headline"}}</h1>
		<p>{{call .T "page.subheadline"}}</p>
		<a class="btn" href="#Data" data-go-to-form>{{call .T "page.enroll"}}</a>
	</div>
</header>

<section class="section" id="testimonials">
	<div class="container">
		<h2>{{call .T "page.testimonials"}}</h2>
		<div class="carousel">
			<div class="testimonials-track" id="testimonialsTrack" style="transform: translateX({{.Carousel.Offset}}px)">
				{{range .Testimonials}}
				<div class="testimonial-card">
					<p>&ldquo;{{.Quote}}&rdquo;</p>
					<strong>{{.Name}}</strong>
					<div class="role">{{.Role}}</div>
				</div>
				{{end}}
			</div>
		</div>
		<nav class="carousel-nav">
			<a class="btn" href="?slide={{.Carousel.Prev}}#testimonials" data-carousel-move="-1">{{call .T "page.prev"}}</a>
			<a class="btn" href="?slide={{.Carousel.Next}}#testimonials" data-carousel-move="1">{{call .T "page.next"}}</a>
		</nav>
	</div>
</section>

<section class="section" id="resources">
	<div class="container">
		<h2>{{call .T "page.resources"}}</h2>
		<div class="resources">
			{{range .Downloads}}
			<a class="btn" href="{{.URL}}" data-download="{{.Filename}}" download="{{.Filename}}">{{.Label}}</a>
			{{end}}
		</div>
	</div>
</section>

<section class="section" id="Data">
	<div class="container">
		<div class="form-card">
			<h2>{{call .T "page.form_title"}}</h2>
			<form id="dataForm" method="post" action="{{.Paths.Submit}}"
				data-send-path="{{.Paths.Send}}"
				data-verify-path="{{.Paths.Verify}}"
				data-submit-path="{{.Paths.Submit}}"
				data-mobile-path="{{.Paths.Mobile}}">
				<div class="form-group">
					<label for="name">{{call .T "form.name"}}</label>
					<input type="text" id="name" name="name" value="{{.Lead.Name}}" autocomplete="name">
				</div>
				<div class="form-group">
					<label for="email">{{call .T "form.email"}}</label>
					<input type="email" id="email" name="email" value="{{.Lead.Email}}" autocomplete="email">
				</div>
				<div class="form-group">
					<label for="mobile">{{call .T "form.mobile"}}</label>
					<div class="mobile-wrap">
						<input type="tel" id="mobile" name="mobile" value="{{.Lead.Mobile}}" maxlength="10" inputmode="numeric" autocomplete="tel-national">
						<button type="submit" id="getOtpText" class="get-otp{{if not .View.ShowGetOTP}} hidden{{end}}" formaction="{{.Paths.Send}}">{{call .T "form.get_otp"}}</button>
					</div>
					<div id="otpSentText" class="otp-sent-text{{if not .View.ShowOTPSent}} hidden{{end}}">{{call .T "form.otp_sent"}}</div>
				</div>
				<div class="form-group{{if not .View.ShowOTPEntry}} hidden{{end}}" id="otpGroup">
					<label for="otpInput">{{call .T "form.otp"}}</label>
					<input type="text" id="otpInput" name="otp" class="otp-input{{if .View.OTPLocked}} locked{{end}}" value="{{.View.OTPValue}}" maxlength="{{.OTPLength}}" inputmode="numeric" autocomplete="one-time-code"{{if .View.OTPLocked}} readonly disabled{{end}}>
					<div id="otpStatus" class="otp-status{{if not .View.ShowVerified}} hidden{{end}}">{{call .T "form.otp_verified"}}</div>
					{{if not .View.OTPLocked}}<button type="submit" class="btn noscript-only" formaction="{{.Paths.Verify}}">{{call .T "form.verify"}}</button>{{end}}
				</div>
				<div class="form-group">
					<label for="course">{{call .T "form.course"}}</label>
					<input type="text" id="course" name="course" value="{{.Lead.Course}}">
				</div>
				<div class="form-group">
					<label for="city">{{call .T "form.city"}}</label>
					<input type="text" id="city" name="city" value="{{.Lead.City}}">
				</div>
				<div class="form-group">
					<label for="background">{{call .T "form.background"}}</label>
					<select id="background" name="background">
						<option value="fresher"{{if eq .Lead.Background "fresher"}} selected{{end}}>{{call .T "form.background_fresh"}}</option>
						<option value="working"{{if eq .Lead.Background "working"}} selected{{end}}>{{call .T "form.background_worker"}}</option>
					</select>
				</div>
				<div class="form-group">
					<label for="mode">{{call .T "form.mode"}}</label>
					<select id="mode" name="mode">
						<option value="online"{{if eq .Lead.Mode "online"}} selected{{end}}>{{call .T "form.mode_online"}}</option>
						<option value="offline"{{if eq .Lead.Mode "offline"}} selected{{end}}>{{call .T "form.mode_offline"}}</option>
					</select>
				</div>
				{{if .RequireAgreement}}
				<div class="form-group">
					<label><input type="checkbox" id="agreeCheck" name="agree" value="on"{{if .Agreed}} checked{{end}}> {{call .T "form.agree"}}</label>
				</div>
				{{end}}
				<div id="formError" class="form-error{{if .View.Status.Visible}} shown{{end}}" role="status"{{if .View.Status.Visible}} style="color: {{.View.Status.Color}}"{{end}}>{{.View.Status.Message}}</div>
				<button type="submit" id="submitBtn" class="btn submit-btn{{if .View.SubmitEnabled}} active{{end}}{{if .View.SubmitDone}} done{{end}}"{{if not .View.SubmitEnabled}} disabled{{end}}>{{if .View.SubmitLabel}}{{.View.SubmitLabel}}{{else}}{{call .T "form.submit"}}{{end}}</button>
			</form>
		</div>
	</div>
</section>

<footer class="footer">
	<div class="container">
		<p>&copy; {{.ServiceName}}</p>
		{{if .LinkedInURL}}<a href="{{.LinkedInURL}}" target="_blank" rel="noopener noreferrer" data-linkedin>{{call .T "page.linkedin"}}</a>{{end}}
	</div>
</footer>

<a class="btn back-to-top" href="#top" data-scroll-top aria-label="{{call .T "page.back_to_top"}}">&uarr;</a>

<script id="leadgate-settings" type="application/json">{{.Settings}}</script>
<script src="{{.Paths.JS}}"></script>
</body>
</html>
`
