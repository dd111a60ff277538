// Package upload handles file attachments for enhanced forms.
//
// File controls cannot ride the URL-encoded submission relay. Instead the
// page posts the file to an upload endpoint first, receives a temp ID, and
// carries that ID in a hidden field of the regular submission:
//
//  1. User picks a file in <input type="file">
//  2. Page posts it to the upload endpoint (multipart)
//  3. Server streams it to temp storage (disk or S3), returns {"temp_id": ...}
//  4. The form submission includes the temp ID in a "<field>_temp_id" value
//  5. The submission handler calls Claim to take ownership of the file
//
// Temp files are consumed on claim and swept by Cleanup when never claimed.
package upload
