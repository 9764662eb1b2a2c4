package service

import "fmt"

// Shared HTML/text rendering for both providers so the two services stay
// byte-identical in what they deliver.

func renderOTPHTML(data OTPEmailData) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Code de vérification MISTRAL VOYAGE</title>
		<style>
			body {
				font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
				line-height: 1.6;
				color: #333;
				max-width: 600px;
				margin: 0 auto;
				padding: 20px;
				background-color: #f8f9fa;
			}
			.container {
				background-color: white;
				border-radius: 10px;
				padding: 30px;
				box-shadow: 0 2px 10px rgba(0,0,0,0.1);
			}
			.header {
				text-align: center;
				margin-bottom: 30px;
			}
			.logo {
				font-size: 28px;
				font-weight: bold;
				color: #1d4ed8;
				margin-bottom: 10px;
			}
			.otp-code {
				background-color: #f3f4f6;
				border: 2px dashed #d1d5db;
				border-radius: 8px;
				padding: 20px;
				text-align: center;
				margin: 20px 0;
			}
			.otp-number {
				font-size: 32px;
				font-weight: bold;
				color: #1d4ed8;
				letter-spacing: 5px;
				font-family: 'Courier New', monospace;
			}
			.warning {
				background-color: #fef3c7;
				border-left: 4px solid #f59e0b;
				padding: 15px;
				margin: 20px 0;
				border-radius: 4px;
			}
			.footer {
				text-align: center;
				margin-top: 30px;
				padding-top: 20px;
				border-top: 1px solid #e5e7eb;
				color: #6b7280;
				font-size: 14px;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<div class="logo">MISTRAL VOYAGE</div>
				<h1>Code de vérification</h1>
			</div>

			<p>Bonjour <strong>%s</strong>,</p>

			<p>%s</p>

			<div class="otp-code">
				<div class="otp-number">%s</div>
			</div>

			<div class="warning">
				<strong>Important :</strong>
				<ul>
					<li>Ce code est valable pendant <strong>%d minutes</strong></li>
					<li>Ne partagez jamais ce code</li>
					<li>Si vous n'avez pas demandé ce code, ignorez cet email</li>
				</ul>
			</div>

			<div class="footer">
				<p>MISTRAL VOYAGE — 123 Avenue des Voyages, 75001 Paris</p>
				<p>contact@mistralvoyage.com | www.mistralvoyage.com</p>
			</div>
		</div>
	</body>
	</html>
	`, data.Name, IntroForPurpose(data.Purpose), data.OTPCode, data.ExpiresIn)
}

func renderOTPText(data OTPEmailData) string {
	return fmt.Sprintf(`
MISTRAL VOYAGE - Code de vérification

Bonjour %s,

%s

Votre code de vérification : %s

Ce code est valable pendant %d minutes.

Ne partagez jamais ce code. Si vous n'avez pas demandé ce code, ignorez cet email.

--
MISTRAL VOYAGE
123 Avenue des Voyages, 75001 Paris
	`, data.Name, IntroForPurpose(data.Purpose), data.OTPCode, data.ExpiresIn)
}

func renderWelcomeHTML(name string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Bienvenue sur MISTRAL VOYAGE</title>
	</head>
	<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center;">
			<h1 style="color: #1d4ed8;">MISTRAL VOYAGE</h1>
		</div>

		<p>Bonjour <strong>%s</strong>,</p>

		<p>Votre adresse email a été vérifiée et votre compte est maintenant actif.
		Vous pouvez dès à présent rechercher des vols et réserver vos billets.</p>

		<p>Bon voyage !</p>

		<p style="color: #6b7280; font-size: 14px; text-align: center; margin-top: 30px;">
			MISTRAL VOYAGE — 123 Avenue des Voyages, 75001 Paris<br>
			contact@mistralvoyage.com | www.mistralvoyage.com
		</p>
	</body>
	</html>
	`, name)
}

func renderWelcomeText(name string) string {
	return fmt.Sprintf(`
MISTRAL VOYAGE - Bienvenue !

Bonjour %s,

Votre adresse email a été vérifiée et votre compte est maintenant actif.
Vous pouvez dès à présent rechercher des vols et réserver vos billets.

Bon voyage !

--
MISTRAL VOYAGE
123 Avenue des Voyages, 75001 Paris
	`, name)
}
