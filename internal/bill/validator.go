package bill

// FileMeta describes an uploaded receipt as declared by the client. Only the
// declared MIME type is consulted; no extension or content sniffing.
type FileMeta struct {
	Name     string
	MimeType string
}

// RejectedFileMessage is the explanatory text the form shows next to the
// file input when a file is refused.
const RejectedFileMessage = "Le fichier sélectionné doit être au format jpeg, jpg ou png"

// acceptedMimeTypes is the exact set of receipt types the store accepts.
// Case-sensitive exact match, no wildcards.
var acceptedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// FileValidation is the outcome of validating one file. Each validation
// reflects only that file; past outcomes do not accumulate.
type FileValidation struct {
	Accepted bool   `json:"accepted"`
	FileName string `json:"fileName"`
	Reason   string `json:"reason,omitempty"`
}

// ErrorDisplay is the declarative error state for the file input: present
// with a message after a rejection, absent after an acceptance. A rendering
// layer applies it; validation itself touches nothing.
type ErrorDisplay struct {
	Present bool   `json:"present"`
	Message string `json:"message,omitempty"`
}

// ValidateFile classifies a file by its declared MIME type.
func ValidateFile(file FileMeta) FileValidation {
	if _, ok := acceptedMimeTypes[file.MimeType]; !ok {
		return FileValidation{
			Accepted: false,
			FileName: file.Name,
			Reason:   RejectedFileMessage,
		}
	}
	return FileValidation{
		Accepted: true,
		FileName: file.Name,
	}
}

// ErrorDisplay maps the validation outcome to the error state the form
// should render.
func (v FileValidation) ErrorDisplay() ErrorDisplay {
	if v.Accepted {
		return ErrorDisplay{}
	}
	return ErrorDisplay{Present: true, Message: v.Reason}
}
